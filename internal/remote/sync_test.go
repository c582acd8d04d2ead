package remote

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-admin/internal/api"
	"lms-admin/internal/curriculum"
	"lms-admin/internal/model"
	"lms-admin/internal/query"
)

// fakeAPI answers from memory and counts calls per method.
type fakeAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	err      error
	sections []model.Section
	contents map[string][]model.Chapter
	reorders []model.ReorderRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls: map[string]int{},
		sections: []model.Section{
			{ID: "s1", CourseID: "c1", Title: "Intro", Order: 1},
			{ID: "s2", CourseID: "c1", Title: "Basics", Order: 2},
		},
		contents: map[string][]model.Chapter{
			"s1": {{ID: "a", SectionID: "s1", Title: "A", Order: 1}, {ID: "b", SectionID: "s1", Title: "B", Order: 2}},
			"s2": {{ID: "c", SectionID: "s2", Title: "C", Order: 1}},
		},
	}
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ListCourses(context.Context) ([]model.Course, error) {
	return []model.Course{{ID: "c1"}}, f.hit("ListCourses")
}
func (f *fakeAPI) GetCourse(_ context.Context, id string) (model.Course, error) {
	return model.Course{ID: id}, f.hit("GetCourse")
}
func (f *fakeAPI) CreateCourse(context.Context, model.CoursePatch) (model.Course, error) {
	return model.Course{ID: "c2"}, f.hit("CreateCourse")
}
func (f *fakeAPI) UpdateCourse(_ context.Context, id string, _ model.CoursePatch) (model.Course, error) {
	return model.Course{ID: id}, f.hit("UpdateCourse")
}
func (f *fakeAPI) DeleteCourse(context.Context, string) error { return f.hit("DeleteCourse") }

func (f *fakeAPI) ListSections(context.Context, string) ([]model.Section, error) {
	if err := f.hit("ListSections"); err != nil {
		return nil, err
	}
	return append([]model.Section(nil), f.sections...), nil
}
func (f *fakeAPI) CreateSection(_ context.Context, courseID string, in model.NewSection) (model.Section, error) {
	return model.Section{ID: "s3", CourseID: courseID, Title: in.Title, Order: in.Order}, f.hit("CreateSection")
}
func (f *fakeAPI) UpdateSection(_ context.Context, id string, p model.SectionPatch) (model.Section, error) {
	return model.Section{ID: id, Title: p.Title}, f.hit("UpdateSection")
}
func (f *fakeAPI) DeleteSection(context.Context, string) error { return f.hit("DeleteSection") }

func (f *fakeAPI) ListChapters(_ context.Context, sectionID string) ([]model.Chapter, error) {
	if err := f.hit("ListChapters"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Chapter(nil), f.contents[sectionID]...), nil
}
func (f *fakeAPI) GetChapter(_ context.Context, id string) (model.Chapter, error) {
	return model.Chapter{ID: id}, f.hit("GetChapter")
}
func (f *fakeAPI) CreateChapter(_ context.Context, sectionID string, in model.NewChapter) (model.Chapter, error) {
	return model.Chapter{ID: "new", SectionID: sectionID, Title: in.Title, Type: in.Type, Order: in.Order}, f.hit("CreateChapter")
}
func (f *fakeAPI) UpdateChapter(_ context.Context, id string, p model.ChapterPatch) (model.Chapter, error) {
	return p.Apply(model.Chapter{ID: id}), f.hit("UpdateChapter")
}
func (f *fakeAPI) DeleteChapter(context.Context, string) error { return f.hit("DeleteChapter") }

func (f *fakeAPI) Reorder(_ context.Context, req model.ReorderRequest) error {
	f.mu.Lock()
	f.reorders = append(f.reorders, req)
	f.mu.Unlock()
	return f.hit("Reorder")
}

func (f *fakeAPI) ListEnrollments(context.Context, api.EnrollmentFilter) ([]model.Enrollment, error) {
	return nil, f.hit("ListEnrollments")
}
func (f *fakeAPI) GetEnrollment(_ context.Context, id string) (model.Enrollment, error) {
	return model.Enrollment{ID: id}, f.hit("GetEnrollment")
}
func (f *fakeAPI) ListUsers(context.Context, api.UserFilter) ([]model.User, error) {
	return nil, f.hit("ListUsers")
}
func (f *fakeAPI) GetUser(_ context.Context, id string) (model.User, error) {
	return model.User{ID: id}, f.hit("GetUser")
}
func (f *fakeAPI) UpdateUser(_ context.Context, id string, _ model.UserPatch) (model.User, error) {
	return model.User{ID: id}, f.hit("UpdateUser")
}

type toasts struct {
	mu      sync.Mutex
	success []string
	errors  []string
}

func (t *toasts) Success(msg string) { t.mu.Lock(); t.success = append(t.success, msg); t.mu.Unlock() }
func (t *toasts) Error(msg string)   { t.mu.Lock(); t.errors = append(t.errors, msg); t.mu.Unlock() }

type routes struct{ got []string }

func (r *routes) Navigate(route string) { r.got = append(r.got, route) }

func newSync(f *fakeAPI) (*Sync, *toasts, *routes) {
	n, nav := &toasts{}, &routes{}
	return New(f, Options{Cache: query.New(0), Notifier: n, Navigator: nav}), n, nav
}

func TestFetchCurriculum_LoadsAllSections(t *testing.T) {
	f := newFakeAPI()
	s, _, _ := newSync(f)

	cur, err := s.FetchCurriculum(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, cur.Sections, 2)
	assert.Len(t, cur.Contents["s1"], 2)
	assert.Len(t, cur.Contents["s2"], 1)
	assert.Equal(t, 2, f.count("ListChapters"))

	// Fresh entries come from the cache.
	_, err = s.FetchCurriculum(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.count("ListSections"))
	assert.Equal(t, 2, f.count("ListChapters"))
}

func TestMutationInvalidatesItsKeys(t *testing.T) {
	f := newFakeAPI()
	s, n, _ := newSync(f)
	_, err := s.FetchCurriculum(context.Background(), "c1")
	require.NoError(t, err)

	_, err = s.UpdateChapter(context.Background(), "s1", "a", model.ChapterPatch{Title: model.Set("A2")})
	require.NoError(t, err)

	assert.True(t, s.Cache().Stale(query.ContentsKey("s1")))
	assert.False(t, s.Cache().Stale(query.ContentsKey("s2")))
	assert.False(t, s.Cache().Stale(query.SectionsKey("c1")))
	assert.Equal(t, []string{"Chapter saved"}, n.success)

	err = s.DeleteSection(context.Background(), "c1", "s2")
	require.NoError(t, err)
	assert.True(t, s.Cache().Stale(query.SectionsKey("c1")))
	assert.True(t, s.Cache().Stale(query.ContentsKey("s2")))
}

func TestUnauthorizedNavigatesToLoginWithoutRetry(t *testing.T) {
	ops := []struct {
		name   string
		method string
		run    func(s *Sync) error
	}{
		{"create section", "CreateSection", func(s *Sync) error {
			_, err := s.CreateSection(context.Background(), "c1", model.NewSection{Title: "x", Order: 1})
			return err
		}},
		{"update chapter", "UpdateChapter", func(s *Sync) error {
			_, err := s.UpdateChapter(context.Background(), "s1", "a", model.ChapterPatch{})
			return err
		}},
		{"delete chapter", "DeleteChapter", func(s *Sync) error {
			return s.DeleteChapter(context.Background(), "s1", "a")
		}},
		{"reorder", "Reorder", func(s *Sync) error {
			return s.Reorder(context.Background(), "c1", "", model.ReorderRequest{Type: model.ReorderSection})
		}},
		{"update user", "UpdateUser", func(s *Sync) error {
			_, err := s.UpdateUser(context.Background(), "u1", model.UserPatch{})
			return err
		}},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			f := newFakeAPI()
			f.err = fmt.Errorf("PUT /x: %w", api.ErrUnauthorized)
			s, n, nav := newSync(f)

			err := op.run(s)
			require.ErrorIs(t, err, api.ErrUnauthorized)
			assert.Equal(t, []string{RouteLogin}, nav.got)
			assert.Equal(t, 1, f.count(op.method), "must not retry")
			assert.Len(t, n.errors, 1)
		})
	}
}

func TestHTTPErrorToastsServerMessage(t *testing.T) {
	f := newFakeAPI()
	f.err = &api.HTTPError{Status: 400, Message: "title is required"}
	s, n, nav := newSync(f)

	_, err := s.CreateChapter(context.Background(), "s1", model.NewChapter{})
	require.Error(t, err)
	assert.Equal(t, []string{"title is required"}, n.errors)
	assert.Empty(t, n.success)
	assert.Empty(t, nav.got)
}

func TestApplyDrop_SectionSwapSendsOneReorder(t *testing.T) {
	f := newFakeAPI()
	s, n, _ := newSync(f)
	cur, err := s.FetchCurriculum(context.Background(), "c1")
	require.NoError(t, err)

	tree := curriculum.NewTree("c1")
	tree.ReplaceOnFetch(cur.Sections, cur.Contents)
	ctl := curriculum.NewController(tree)

	require.NoError(t, ctl.DragStart(curriculum.DragPayload{Kind: curriculum.DragSection, ID: "s2"}))
	ctl.DragOver("s1")
	drop, err := ctl.DragEnd("s1")
	require.NoError(t, err)
	require.NoError(t, s.ApplyDrop(context.Background(), "c1", drop))

	require.Len(t, f.reorders, 1)
	assert.Equal(t, model.ReorderRequest{
		Type:        model.ReorderSection,
		SortedOrder: []model.OrderEntry{{ID: "s2", Order: 1}, {ID: "s1", Order: 2}},
	}, f.reorders[0])
	assert.Equal(t, []string{"Order updated"}, n.success)
	assert.Equal(t, []string{"s2", "s1"}, tree.SectionIDs())
}

func TestApplyDrop_CrossSectionSendsNothing(t *testing.T) {
	f := newFakeAPI()
	s, n, _ := newSync(f)
	cur, err := s.FetchCurriculum(context.Background(), "c1")
	require.NoError(t, err)

	tree := curriculum.NewTree("c1")
	tree.ReplaceOnFetch(cur.Sections, cur.Contents)
	ctl := curriculum.NewController(tree)

	drop, err := ctl.Move(curriculum.DragPayload{Kind: curriculum.DragChapter, ID: "a"}, "c")
	require.ErrorIs(t, err, curriculum.ErrCrossSection)
	require.NoError(t, s.ApplyDrop(context.Background(), "c1", drop))

	assert.Zero(t, f.count("Reorder"))
	assert.Empty(t, n.success)
	assert.Equal(t, []string{"a", "b"}, tree.ChapterIDs("s1"))
}

func TestReorderFailureKeepsLocalOrder(t *testing.T) {
	f := newFakeAPI()
	s, n, _ := newSync(f)
	cur, err := s.FetchCurriculum(context.Background(), "c1")
	require.NoError(t, err)

	tree := curriculum.NewTree("c1")
	tree.ReplaceOnFetch(cur.Sections, cur.Contents)
	ctl := curriculum.NewController(tree)

	f.err = &api.HTTPError{Status: 500, Message: "boom"}
	drop, err := ctl.Move(curriculum.DragPayload{Kind: curriculum.DragChapter, ID: "b"}, "a")
	require.NoError(t, err)
	require.Error(t, s.ApplyDrop(context.Background(), "c1", drop))

	assert.Equal(t, []string{"b", "a"}, tree.ChapterIDs("s1"))
	assert.Equal(t, []string{"Order updated"}, n.success)
	assert.Equal(t, []string{"boom"}, n.errors)
}
