package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
)

// FollowService manages subscriptions between users.
type FollowService struct {
	db *gorm.DB
}

// Ensure FollowService implements IFollowService
var _ IFollowService = (*FollowService)(nil)

// NewFollowService creates a new FollowService instance
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow subscribes user to author and returns the author preview.
// recipesLimit <= 0 means no limit on the embedded recipes.
func (s *FollowService) Follow(ctx context.Context, user *models.User, authorID uint, recipesLimit int) (*types.SubscriptionResponse, error) {
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author.ID == user.ID {
		return nil, &ConflictError{Message: "cannot follow self"}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count > 0 {
		return nil, s.alreadyFollowing(user, author)
	}
	if err := s.db.WithContext(ctx).Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.alreadyFollowing(user, author)
		}
		return nil, fmt.Errorf("failed to follow: %w", err)
	}

	previews, err := s.previews(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &previews[0], nil
}

// Unfollow removes the subscription of user to author.
func (s *FollowService) Unfollow(ctx context.Context, user *models.User, authorID uint) error {
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to unfollow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &ConflictError{Message: fmt.Sprintf("%s is not subscribed to %s", user.Username, author.Username)}
	}
	return nil
}

// Subscriptions lists the authors user follows, most recent first.
func (s *FollowService) Subscriptions(ctx context.Context, user *models.User, page types.Pagination, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", user.ID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var follows []models.Follow
	query := base.Session(&gorm.Session{}).Preload("Author").Order("id DESC").Offset(page.Offset())
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if err := query.Find(&follows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	authors := make([]models.User, len(follows))
	for i := range follows {
		authors[i] = follows[i].Author
	}
	previews, err := s.previews(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return previews, total, nil
}

// previews builds subscription projections for authors the caller follows,
// loading counts and recipes for the whole batch at once.
func (s *FollowService) previews(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	out := make([]types.SubscriptionResponse, len(authors))
	if len(authors) == 0 {
		return out, nil
	}
	ids := make([]uint, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}

	var counts []struct {
		AuthorID uint
		Total    int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}
	countByAuthor := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByAuthor[c.AuthorID] = c.Total
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).
		Where("author_id IN ?", ids).
		Order("pub_date DESC").Order("id DESC").
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load author recipes: %w", err)
	}
	byAuthor := make(map[uint][]types.RecipeSummary, len(authors))
	for i := range recipes {
		authorID := recipes[i].AuthorID
		if recipesLimit > 0 && len(byAuthor[authorID]) >= recipesLimit {
			continue
		}
		byAuthor[authorID] = append(byAuthor[authorID], *Summarize(&recipes[i]))
	}

	for i := range authors {
		summaries := byAuthor[authors[i].ID]
		if summaries == nil {
			summaries = []types.RecipeSummary{}
		}
		out[i] = types.SubscriptionResponse{
			UserResponse: userResponse(&authors[i], true),
			Recipes:      summaries,
			RecipesCount: countByAuthor[authors[i].ID],
		}
	}
	return out, nil
}

func (s *FollowService) findUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *FollowService) alreadyFollowing(user, author *models.User) error {
	return &ConflictError{Message: fmt.Sprintf("%s is already subscribed to %s", user.Username, author.Username)}
}
