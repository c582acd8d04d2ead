package remote

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lms-admin/internal/api"
	"lms-admin/internal/curriculum"
	"lms-admin/internal/model"
	"lms-admin/internal/query"
)

// API is the slice of the admin REST client the sync layer drives.
type API interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id string) (model.Course, error)
	CreateCourse(ctx context.Context, p model.CoursePatch) (model.Course, error)
	UpdateCourse(ctx context.Context, id string, p model.CoursePatch) (model.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	ListSections(ctx context.Context, courseID string) ([]model.Section, error)
	CreateSection(ctx context.Context, courseID string, in model.NewSection) (model.Section, error)
	UpdateSection(ctx context.Context, sectionID string, p model.SectionPatch) (model.Section, error)
	DeleteSection(ctx context.Context, sectionID string) error

	ListChapters(ctx context.Context, sectionID string) ([]model.Chapter, error)
	GetChapter(ctx context.Context, chapterID string) (model.Chapter, error)
	CreateChapter(ctx context.Context, sectionID string, in model.NewChapter) (model.Chapter, error)
	UpdateChapter(ctx context.Context, chapterID string, p model.ChapterPatch) (model.Chapter, error)
	DeleteChapter(ctx context.Context, chapterID string) error

	Reorder(ctx context.Context, req model.ReorderRequest) error

	ListEnrollments(ctx context.Context, f api.EnrollmentFilter) ([]model.Enrollment, error)
	GetEnrollment(ctx context.Context, id string) (model.Enrollment, error)
	ListUsers(ctx context.Context, f api.UserFilter) ([]model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	UpdateUser(ctx context.Context, id string, p model.UserPatch) (model.User, error)
}

// Sync wraps every server call with cache invalidation and user feedback.
// Failures are toasted and returned; nothing is retried or rolled back. An
// unauthorized failure also navigates to the login route.
type Sync struct {
	api    API
	cache  *query.Cache
	notify Notifier
	nav    Navigator
	log    *zap.Logger
}

type Options struct {
	Cache     *query.Cache
	Notifier  Notifier
	Navigator Navigator
	Logger    *zap.Logger
}

func New(a API, opts Options) *Sync {
	s := &Sync{api: a, cache: opts.Cache, notify: opts.Notifier, nav: opts.Navigator, log: opts.Logger}
	if s.cache == nil {
		s.cache = query.New(0)
	}
	if s.notify == nil {
		s.notify = nopNotifier{}
	}
	if s.nav == nil {
		s.nav = nopNavigator{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *Sync) Cache() *query.Cache { return s.cache }

// fail reports err to the user and returns it unchanged.
func (s *Sync) fail(op string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	s.log.Warn("remote call failed", zap.String("op", op), zap.Error(err))
	if errors.Is(err, api.ErrUnauthorized) {
		s.nav.Navigate(RouteLogin)
		s.notify.Error("Your session has expired. Please log in again.")
		return err
	}
	s.notify.Error(api.Message(err))
	return err
}

func mutate[T any](ctx context.Context, s *Sync, op, success string, keys []query.Key, call func(context.Context) (T, error)) (T, error) {
	v, err := call(ctx)
	if err != nil {
		return v, s.fail(op, err)
	}
	s.cache.Invalidate(keys...)
	if success != "" {
		s.notify.Success(success)
	}
	return v, nil
}

func mutateErr(ctx context.Context, s *Sync, op, success string, keys []query.Key, call func(context.Context) error) error {
	_, err := mutate(ctx, s, op, success, keys, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	})
	return err
}

// Curriculum is one course's sections and their chapters as the server has them.
type Curriculum struct {
	Sections []model.Section
	Contents map[string][]model.Chapter
}

// FetchCurriculum loads sections, then every section's chapters concurrently.
// Fresh cache entries are reused.
func (s *Sync) FetchCurriculum(ctx context.Context, courseID string) (Curriculum, error) {
	sections, err := query.Fetch(ctx, s.cache, query.SectionsKey(courseID), func(ctx context.Context) ([]model.Section, error) {
		return s.api.ListSections(ctx, courseID)
	})
	if err != nil {
		return Curriculum{}, s.fail("list sections", err)
	}

	contents := make([][]model.Chapter, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, sec := range sections {
		g.Go(func() error {
			chs, err := query.Fetch(gctx, s.cache, query.ContentsKey(sec.ID), func(ctx context.Context) ([]model.Chapter, error) {
				return s.api.ListChapters(ctx, sec.ID)
			})
			if err != nil {
				return err
			}
			contents[i] = chs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Curriculum{}, s.fail("list contents", err)
	}

	out := Curriculum{Sections: sections, Contents: make(map[string][]model.Chapter, len(sections))}
	for i, sec := range sections {
		out.Contents[sec.ID] = contents[i]
	}
	return out, nil
}

func (s *Sync) CreateSection(ctx context.Context, courseID string, in model.NewSection) (model.Section, error) {
	return mutate(ctx, s, "create section", "Section created", []query.Key{query.SectionsKey(courseID)},
		func(ctx context.Context) (model.Section, error) { return s.api.CreateSection(ctx, courseID, in) })
}

func (s *Sync) UpdateSection(ctx context.Context, courseID, sectionID string, p model.SectionPatch) (model.Section, error) {
	return mutate(ctx, s, "update section", "Section updated", []query.Key{query.SectionsKey(courseID)},
		func(ctx context.Context) (model.Section, error) { return s.api.UpdateSection(ctx, sectionID, p) })
}

func (s *Sync) DeleteSection(ctx context.Context, courseID, sectionID string) error {
	return mutateErr(ctx, s, "delete section", "Section deleted",
		[]query.Key{query.SectionsKey(courseID), query.ContentsKey(sectionID)},
		func(ctx context.Context) error { return s.api.DeleteSection(ctx, sectionID) })
}

// Chapters lists one section's chapters through the cache.
func (s *Sync) Chapters(ctx context.Context, sectionID string) ([]model.Chapter, error) {
	v, err := query.Fetch(ctx, s.cache, query.ContentsKey(sectionID), func(ctx context.Context) ([]model.Chapter, error) {
		return s.api.ListChapters(ctx, sectionID)
	})
	if err != nil {
		return nil, s.fail("list contents", err)
	}
	return v, nil
}

func (s *Sync) GetChapter(ctx context.Context, chapterID string) (model.Chapter, error) {
	ch, err := s.api.GetChapter(ctx, chapterID)
	if err != nil {
		return ch, s.fail("get content", err)
	}
	return ch, nil
}

func (s *Sync) CreateChapter(ctx context.Context, sectionID string, in model.NewChapter) (model.Chapter, error) {
	return mutate(ctx, s, "create content", "Chapter created", []query.Key{query.ContentsKey(sectionID)},
		func(ctx context.Context) (model.Chapter, error) { return s.api.CreateChapter(ctx, sectionID, in) })
}

func (s *Sync) UpdateChapter(ctx context.Context, sectionID, chapterID string, p model.ChapterPatch) (model.Chapter, error) {
	return mutate(ctx, s, "update content", "Chapter saved", []query.Key{query.ContentsKey(sectionID)},
		func(ctx context.Context) (model.Chapter, error) { return s.api.UpdateChapter(ctx, chapterID, p) })
}

func (s *Sync) DeleteChapter(ctx context.Context, sectionID, chapterID string) error {
	return mutateErr(ctx, s, "delete content", "Chapter deleted", []query.Key{query.ContentsKey(sectionID)},
		func(ctx context.Context) error { return s.api.DeleteChapter(ctx, chapterID) })
}

// Reorder sends one batch reorder. The success toast goes out before the
// server answers; a failure toasts an error and leaves local order as is.
// sectionID scopes content reorders and is ignored for sections.
func (s *Sync) Reorder(ctx context.Context, courseID, sectionID string, req model.ReorderRequest) error {
	s.notify.Success("Order updated")
	key := query.SectionsKey(courseID)
	if req.Type == model.ReorderContent {
		key = query.ContentsKey(sectionID)
	}
	if err := s.api.Reorder(ctx, req); err != nil {
		return s.fail("reorder", err)
	}
	s.cache.Invalidate(key)
	return nil
}

// ApplyDrop sends the reorder produced by a drag, if it moved anything.
func (s *Sync) ApplyDrop(ctx context.Context, courseID string, d curriculum.Drop) error {
	if !d.Moved {
		return nil
	}
	return s.Reorder(ctx, courseID, d.SectionID, d.Request)
}
