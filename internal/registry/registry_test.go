package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"content_ingest/internal/domain"
	"content_ingest/internal/registry/mocks"
	"content_ingest/testdata/utils"
)

type RegistryTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	store *mocks.MockSourceStore
	names *mocks.MockNameSuggester

	service *Service
}

func (s *RegistryTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.store = mocks.NewMockSourceStore(s.ctrl)
	s.names = mocks.NewMockNameSuggester(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewService(s.store, s.names, logger)
}

func (s *RegistryTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) TestCreate_RSSSource() {
	ctx := context.Background()

	var inserted *domain.Source
	s.store.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, src *domain.Source) error {
			inserted = src
			return nil
		},
	)

	src, err := s.service.Create(ctx, "owner-1", domain.SourceTypeRSS, "https://example.com/feed.xml", "My Feed")

	s.NoError(err)
	s.NotNil(inserted)
	s.NotEmpty(src.ID)
	s.Equal("owner-1", src.OwnerID)
	s.Equal(domain.SourceTypeRSS, src.Type)
	s.Equal("https://example.com/feed.xml", src.Endpoint)
	s.Equal("My Feed", src.Name)
	s.True(src.Active)
	s.Equal(domain.StatusUnknown, src.Status)
	s.Equal(0, src.ConsecutiveFailures)
	s.Empty(src.FetchCursor)
	s.False(src.NextDueAt.After(src.CreatedAt))
}

func (s *RegistryTestSuite) TestCreate_SocialHandleNormalized() {
	ctx := context.Background()

	s.store.EXPECT().Insert(ctx, gomock.Any()).Return(nil)

	src, err := s.service.Create(ctx, "owner-1", domain.SourceTypeSocial, "@jane_doe", "Jane")

	s.NoError(err)
	s.Equal("jane_doe", src.Endpoint)
}

func (s *RegistryTestSuite) TestCreate_InvalidRSSURL() {
	ctx := context.Background()

	_, err := s.service.Create(ctx, "owner-1", domain.SourceTypeRSS, "not-a-valid-url", "Feed")

	var verr *domain.ValidationError
	s.ErrorAs(err, &verr)
}

func (s *RegistryTestSuite) TestCreate_InvalidHandle() {
	ctx := context.Background()

	_, err := s.service.Create(ctx, "owner-1", domain.SourceTypeSocial, "this_handle_is_way_too_long", "Someone")

	var verr *domain.ValidationError
	s.ErrorAs(err, &verr)
}

func (s *RegistryTestSuite) TestCreate_UnsupportedType() {
	ctx := context.Background()

	_, err := s.service.Create(ctx, "owner-1", domain.SourceType("telegram"), "whatever", "Chan")

	var cerr *domain.ConfigurationError
	s.ErrorAs(err, &cerr)
}

func (s *RegistryTestSuite) TestCreate_SuggestedNameWhenEmpty() {
	ctx := context.Background()

	s.names.EXPECT().SuggestName(ctx, domain.SourceTypeRSS, "https://example.com/feed.xml").Return("Example Feed", nil)
	s.store.EXPECT().Insert(ctx, gomock.Any()).Return(nil)

	src, err := s.service.Create(ctx, "owner-1", domain.SourceTypeRSS, "https://example.com/feed.xml", "")

	s.NoError(err)
	s.Equal("Example Feed", src.Name)
}

func (s *RegistryTestSuite) TestCreate_SuggesterFailureFallsBackToEndpoint() {
	ctx := context.Background()

	s.names.EXPECT().SuggestName(ctx, domain.SourceTypeSocial, "jane_doe").Return("", context.DeadlineExceeded)
	s.store.EXPECT().Insert(ctx, gomock.Any()).Return(nil)

	src, err := s.service.Create(ctx, "owner-1", domain.SourceTypeSocial, "jane_doe", "")

	s.NoError(err)
	s.Equal("jane_doe", src.Name)
}

func (s *RegistryTestSuite) TestGet_CrossOwnerNotFound() {
	ctx := context.Background()

	s.store.EXPECT().GetByOwner(ctx, "src-1", "other-owner").Return(nil, domain.ErrNotFound)

	_, err := s.service.Get(ctx, "src-1", "other-owner")

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RegistryTestSuite) TestUpdate_Patch() {
	ctx := context.Background()
	patch := domain.SourcePatch{Name: utils.Ptr("Renamed"), Active: utils.Ptr(false)}

	updated := &domain.Source{ID: "src-1", Name: "Renamed", Active: false}
	s.store.EXPECT().UpdateFields(ctx, "src-1", "owner-1", patch).Return(updated, nil)

	src, err := s.service.Update(ctx, "src-1", "owner-1", patch)

	s.NoError(err)
	s.Equal("Renamed", src.Name)
	s.False(src.Active)
}

func (s *RegistryTestSuite) TestUpdate_EmptyNameRejected() {
	ctx := context.Background()

	_, err := s.service.Update(ctx, "src-1", "owner-1", domain.SourcePatch{Name: utils.Ptr("")})

	var verr *domain.ValidationError
	s.ErrorAs(err, &verr)
}

func (s *RegistryTestSuite) TestDelete() {
	ctx := context.Background()

	s.store.EXPECT().Delete(ctx, "src-1", "owner-1").Return(nil)

	s.NoError(s.service.Delete(ctx, "src-1", "owner-1"))
}

func (s *RegistryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()

	s.store.EXPECT().Delete(ctx, "src-1", "owner-1").Return(domain.ErrNotFound)

	s.ErrorIs(s.service.Delete(ctx, "src-1", "owner-1"), domain.ErrNotFound)
}

func (s *RegistryTestSuite) TestStatus_Projection() {
	ctx := context.Background()

	src := &domain.Source{
		ID:                  "src-1",
		Status:              domain.StatusDegraded,
		ConsecutiveFailures: 2,
		LastError:           utils.Ptr("timeout"),
	}
	s.store.EXPECT().GetByOwner(ctx, "src-1", "owner-1").Return(src, nil)

	status, err := s.service.Status(ctx, "src-1", "owner-1")

	s.NoError(err)
	s.Equal(domain.StatusDegraded, status.Status)
	s.Equal(2, status.ConsecutiveFailures)
	s.Equal("timeout", *status.LastError)
}
