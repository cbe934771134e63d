package engine

import (
	"errors"
	"time"

	"discipline/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service runs the progression pipeline: record a completion, then
// re-derive streak, league, score and badges from the ledger, in that
// order. It is the only component other layers call.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Snapshot is the settled per-user progression state returned after
// every recomputation.
type Snapshot struct {
	CurrentStreak int      `json:"current_streak"`
	BestStreak    int      `json:"best_streak"`
	League        League   `json:"league"`
	Points        Points   `json:"total_points"`
	OverallScore  float64  `json:"overall_score"`
	Badges        []string `json:"badges"`
}

// CompleteTask records a completion of taskID for today and runs the
// full recompute inside one transaction holding the user row lock, so
// concurrent completions for the same user serialize. The second
// return value reports a duplicate completion: the ledger is left
// unchanged and the current snapshot is returned as-is.
func (s *Service) CompleteTask(userID, taskID uint, now time.Time) (*Snapshot, bool, error) {
	var snap *Snapshot
	conflict := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		var task models.Task
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		day := Day(now)

		var dup int64
		if err := tx.Model(&models.TaskCompletion{}).
			Where("task_id = ? AND day = ?", task.ID, day).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			conflict = true
			snap, err = s.settledSnapshot(tx, user)
			return err
		}

		// First completion of this category today awards the point;
		// a second task in the same category does not double-count.
		var inCategory int64
		if err := tx.Model(&models.TaskCompletion{}).
			Where("user_id = ? AND category = ? AND day = ?", userID, task.Category, day).
			Count(&inCategory).Error; err != nil {
			return err
		}

		entry := models.TaskCompletion{
			TaskID:   task.ID,
			UserID:   userID,
			Category: task.Category,
			Day:      day,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		points := pointsOf(user)
		if inCategory == 0 {
			points.Award(Category(task.Category), League(user.League))
		}

		completedAt := now.UTC()
		user.LastCompletionAt = &completedAt

		snap, err = s.recompute(tx, user, points, now)
		return err
	})

	return snap, conflict, err
}

// UserSnapshot re-derives the progression state on read, applying any
// pending missed-day penalty first. Streak, league and badges come
// from the ledger, never from a scheduled job.
func (s *Service) UserSnapshot(userID uint, now time.Time) (*Snapshot, error) {
	var snap *Snapshot

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		full, err := s.fullDays(tx, userID)
		if err != nil {
			return err
		}

		// Days before the account existed do not count as missed.
		missed := MissedDays(full, now)
		if since := daysSince(user.CreatedAt, now); missed > since {
			missed = since
		}

		points := pointsOf(user)
		if missed >= 2 && !penaltyApplied(user, now, missed) {
			points.Deduct(League(user.League).Deduction())
			penalizedAt := now.UTC()
			user.LastPenaltyAt = &penalizedAt
		}

		snap, err = s.recomputeFrom(tx, user, points, full, now)
		return err
	})

	return snap, err
}

// CategoriesCompletedOn returns the categories with at least one task
// completion on the given day.
func (s *Service) CategoriesCompletedOn(userID uint, day string) ([]Category, error) {
	var rows []models.TaskCompletion
	if err := s.DB.Where("user_id = ? AND day = ?", userID, day).Find(&rows).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		seen[r.Category] = true
	}

	var out []Category
	for _, c := range Categories {
		if seen[string(c)] {
			out = append(out, c)
		}
	}
	return out, nil
}

// RemoveCompletion deletes one ledger entry and re-settles the owner's
// state. Admin correction path; normal operation never removes entries.
func (s *Service) RemoveCompletion(taskID uint, day string) (uint, error) {
	var userID uint

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var entry models.TaskCompletion
		if err := tx.Where("task_id = ? AND day = ?", taskID, day).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		userID = entry.UserID

		if err := tx.Unscoped().Delete(&entry).Error; err != nil {
			return err
		}

		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}
		_, err = s.recompute(tx, user, pointsOf(user), time.Now())
		return err
	})

	return userID, err
}

// ResetProgression clears a user's badges and progression back to the
// initial state. Admin only.
func (s *Service) ResetProgression(userID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.UserBadge{}).Error; err != nil {
			return err
		}

		user.CurrentStreak = 0
		user.BestStreak = 0
		user.League = string(LeagueNormal)
		setPoints(user, NewPoints())
		user.LastPenaltyAt = nil
		return tx.Save(user).Error
	})
}

// recompute settles streak, league, score and badges from the ledger
// and persists the snapshot.
func (s *Service) recompute(tx *gorm.DB, user *models.User, points Points, now time.Time) (*Snapshot, error) {
	full, err := s.fullDays(tx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.recomputeFrom(tx, user, points, full, now)
}

func (s *Service) recomputeFrom(tx *gorm.DB, user *models.User, points Points, full map[string]bool, now time.Time) (*Snapshot, error) {
	current := CurrentStreak(full, now)
	best := user.BestStreak
	if current > best {
		best = current
	}

	prevLeague := League(user.League)
	league := Classify(current)

	earned, names, err := s.earnedBadges(tx, user.ID)
	if err != nil {
		return nil, err
	}

	added := EvaluateBadges(earned, BadgeInput{
		CurrentStreak: current,
		BestStreak:    best,
		PrevLeague:    prevLeague,
		League:        league,
		Points:        points,
	})
	for _, name := range added {
		if err := tx.Create(&models.UserBadge{UserID: user.ID, Name: name}).Error; err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	user.CurrentStreak = current
	user.BestStreak = best
	user.League = string(league)
	setPoints(user, points)
	if err := tx.Save(user).Error; err != nil {
		return nil, err
	}

	return &Snapshot{
		CurrentStreak: current,
		BestStreak:    best,
		League:        league,
		Points:        points,
		OverallScore:  OverallScore(points),
		Badges:        names,
	}, nil
}

// settledSnapshot returns the persisted state without recomputing.
func (s *Service) settledSnapshot(tx *gorm.DB, user *models.User) (*Snapshot, error) {
	_, names, err := s.earnedBadges(tx, user.ID)
	if err != nil {
		return nil, err
	}
	points := pointsOf(user)
	return &Snapshot{
		CurrentStreak: user.CurrentStreak,
		BestStreak:    user.BestStreak,
		League:        League(user.League),
		Points:        points,
		OverallScore:  OverallScore(points),
		Badges:        names,
	}, nil
}

// fullDays maps each calendar day on which the user completed all five
// categories. Bounded by the user's completion history.
func (s *Service) fullDays(tx *gorm.DB, userID uint) (map[string]bool, error) {
	var rows []models.TaskCompletion
	if err := tx.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	byDay := make(map[string]map[string]bool)
	for _, r := range rows {
		if byDay[r.Day] == nil {
			byDay[r.Day] = make(map[string]bool)
		}
		byDay[r.Day][r.Category] = true
	}

	full := make(map[string]bool, len(byDay))
	for day, cats := range byDay {
		if len(cats) == len(Categories) {
			full[day] = true
		}
	}
	return full, nil
}

func (s *Service) earnedBadges(tx *gorm.DB, userID uint) (map[string]bool, []string, error) {
	var rows []models.UserBadge
	if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	earned := make(map[string]bool, len(rows))
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		earned[r.Name] = true
		names = append(names, r.Name)
	}
	return earned, names, nil
}

// lockUser loads the user row under FOR UPDATE so concurrent events
// for the same user serialize. sqlite has no row locks but serializes
// writers itself, so the clause is postgres-only.
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	err := q.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// penaltyApplied reports whether the current missed-day run was already
// penalized, so repeated reads do not stack deductions.
func penaltyApplied(user *models.User, now time.Time, missed int) bool {
	if user.LastPenaltyAt == nil {
		return false
	}
	return daysSince(*user.LastPenaltyAt, now) < missed
}

func daysSince(t time.Time, now time.Time) int {
	days := int(now.UTC().Sub(t.UTC()).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func pointsOf(user *models.User) Points {
	return Points{
		CategoryIntelligence:  user.PointsIntelligence,
		CategoryPhysical:      user.PointsPhysical,
		CategorySocial:        user.PointsSocial,
		CategoryDiscipline:    user.PointsDiscipline,
		CategoryDetermination: user.PointsDetermination,
	}
}

func setPoints(user *models.User, p Points) {
	user.PointsIntelligence = p[CategoryIntelligence]
	user.PointsPhysical = p[CategoryPhysical]
	user.PointsSocial = p[CategorySocial]
	user.PointsDiscipline = p[CategoryDiscipline]
	user.PointsDetermination = p[CategoryDetermination]
}
