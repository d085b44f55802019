package service

import (
	"context"

	"agora/internal/models"
	"agora/internal/moderation"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByNicknameFn func(context.Context, string) (*models.User, error)
	existsFn        func(context.Context, uint) (bool, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getByNicknameFn(ctx, nickname)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByNicknameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		existsFn:        func(_ context.Context, _ uint) (bool, error) { return true, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	listFn           func(context.Context, int, int) ([]*models.Post, int64, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	existsFn         func(context.Context, uint) (bool, error)
	incrementViewsFn func(context.Context, uint) error
	isLikedFn        func(context.Context, uint, uint) (bool, error)
	likeFn           func(context.Context, uint, uint) error
	unlikeFn         func(context.Context, uint, uint) error
	likeCountFn      func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, cursor, limit int) ([]*models.Post, int64, error) {
	return s.listFn(ctx, cursor, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likeCountFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn:        func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:           func(_ context.Context, _, _ int) ([]*models.Post, int64, error) { return nil, 0, nil },
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		existsFn:         func(_ context.Context, _ uint) (bool, error) { return true, nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		isLikedFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:           func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:         func(_ context.Context, _, _ uint) error { return nil },
		likeCountFn:      func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByPostFn  func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
	countByPostFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, cursor, limit int) ([]*models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, cursor, limit)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, comment *models.Comment) error {
			comment.ID = 1
			return nil
		},
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:  func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, int64, error) { return nil, 0, nil },
		updateFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// classifierStub is a stub for moderation.Classifier.
type classifierStub struct {
	checkFn func(context.Context, string, float64) moderation.Result
	calls   int
}

func (s *classifierStub) Check(ctx context.Context, text string, threshold float64) moderation.Result {
	s.calls++
	return s.checkFn(ctx, text, threshold)
}

func benignClassifier() *classifierStub {
	return &classifierStub{
		checkFn: func(_ context.Context, _ string, _ float64) moderation.Result {
			return moderation.Result{Success: true, Label: "LABEL_0", Score: 0.98}
		},
	}
}

func toxicClassifier(score float64) *classifierStub {
	return &classifierStub{
		checkFn: func(_ context.Context, _ string, threshold float64) moderation.Result {
			return moderation.Result{
				Success: true,
				IsToxic: score >= threshold,
				Label:   "LABEL_1",
				Score:   score,
			}
		},
	}
}

func failingClassifier(detail string) *classifierStub {
	return &classifierStub{
		checkFn: func(_ context.Context, _ string, _ float64) moderation.Result {
			return moderation.Result{Success: false, Error: detail, Label: moderation.LabelError}
		},
	}
}
