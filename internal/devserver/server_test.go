package devserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-admin/internal/api"
	"lms-admin/internal/curriculum"
	"lms-admin/internal/devserver"
	"lms-admin/internal/model"
	"lms-admin/internal/remote"
	"lms-admin/internal/session"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret"
)

type tokenFunc func(context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

func setup(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()
	ctx := context.Background()
	store, err := devserver.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Seed(ctx, devserver.SeedOptions{AdminEmail: adminEmail, AdminPassword: adminPassword}))

	srv := httptest.NewServer(devserver.NewServer(store, devserver.Options{Secret: "test-secret"}))
	t.Cleanup(srv.Close)

	sess, err := session.NewAuthenticator(srv.URL, 5*time.Second).Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.NotEmpty(t, sess.AccessToken)

	client := api.New(api.Options{
		BaseURL: srv.URL,
		Tokens:  tokenFunc(func(context.Context) (string, error) { return sess.AccessToken, nil }),
	})
	return srv, client
}

func demoCourse(t *testing.T, c *api.Client) model.Course {
	t.Helper()
	courses, err := c.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	return courses[0]
}

func TestLogin_BadCredentials(t *testing.T) {
	srv, _ := setup(t)
	_, err := session.NewAuthenticator(srv.URL, 5*time.Second).Login(context.Background(), adminEmail, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	// Students cannot sign in to the admin API.
	_, err = session.NewAuthenticator(srv.URL, 5*time.Second).Login(context.Background(), "student@example.com", adminPassword)
	require.Error(t, err)
}

func TestAdminAPI_RequiresBearer(t *testing.T) {
	srv, _ := setup(t)
	resp, err := http.Get(srv.URL + "/api/admin/courses")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	c := api.New(api.Options{
		BaseURL: srv.URL,
		Tokens:  tokenFunc(func(context.Context) (string, error) { return "garbage", nil }),
	})
	_, err = c.ListCourses(context.Background())
	assert.True(t, errors.Is(err, api.ErrUnauthorized), "got %v", err)
}

func TestCurriculumLifecycle(t *testing.T) {
	_, c := setup(t)
	ctx := context.Background()
	course := demoCourse(t, c)

	sections, err := c.ListSections(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, 1, sections[0].Order)
	assert.Equal(t, 2, sections[1].Order)

	created, err := c.CreateSection(ctx, course.ID, model.NewSection{Title: "Wrap-up"})
	require.NoError(t, err)
	assert.Equal(t, 3, created.Order, "order defaults to max+1")

	ch, err := c.CreateChapter(ctx, created.ID, model.NewChapter{Title: "Quiz", Type: model.ChapterTypeAssignment, Order: 1})
	require.NoError(t, err)

	days := 7
	_, err = c.UpdateChapter(ctx, ch.ID, model.ChapterPatch{AccessTill: model.Set(days), XP: model.Set(50)})
	require.NoError(t, err)
	got, err := c.GetChapter(ctx, ch.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AccessTill)
	assert.Equal(t, 7, *got.AccessTill)
	assert.Equal(t, 50, got.XP)

	// Unset clears the value server-side.
	updated, err := c.UpdateChapter(ctx, ch.ID, model.ChapterPatch{AccessTill: model.Unset[int]()})
	require.NoError(t, err)
	assert.Nil(t, updated.AccessTill)
	assert.Equal(t, 50, updated.XP, "absent fields are untouched")

	require.NoError(t, c.DeleteSection(ctx, created.ID))
	_, err = c.GetChapter(ctx, ch.ID)
	assert.True(t, api.IsNotFound(err), "contents go with their section, got %v", err)
}

func TestSortOrder(t *testing.T) {
	_, c := setup(t)
	ctx := context.Background()
	course := demoCourse(t, c)
	sections, err := c.ListSections(ctx, course.ID)
	require.NoError(t, err)
	s1, s2 := sections[0], sections[1]

	err = c.Reorder(ctx, model.ReorderRequest{
		Type:        model.ReorderSection,
		SortedOrder: []model.OrderEntry{{ID: s2.ID, Order: 1}, {ID: s1.ID, Order: 2}},
	})
	require.NoError(t, err)

	sections, err = c.ListSections(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{s2.ID, s1.ID}, []string{sections[0].ID, sections[1].ID})

	a, err := c.ListChapters(ctx, s1.ID)
	require.NoError(t, err)
	b, err := c.ListChapters(ctx, s2.ID)
	require.NoError(t, err)

	err = c.Reorder(ctx, model.ReorderRequest{
		Type:        model.ReorderContent,
		SortedOrder: []model.OrderEntry{{ID: a[0].ID, Order: 1}, {ID: b[0].ID, Order: 2}},
	})
	var he *api.HTTPError
	require.True(t, errors.As(err, &he), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	err = c.Reorder(ctx, model.ReorderRequest{Type: "lesson"})
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestNotFoundMapsTo404(t *testing.T) {
	_, c := setup(t)
	_, err := c.GetCourse(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "not found", api.Message(err))
}

func TestUsersAndEnrollments(t *testing.T) {
	_, c := setup(t)
	ctx := context.Background()

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, me.Email)

	students, err := c.ListUsers(ctx, api.UserFilter{Role: model.RoleStudent})
	require.NoError(t, err)
	require.Len(t, students, 1)

	banned := model.UserBanned
	u, err := c.UpdateUser(ctx, students[0].ID, model.UserPatch{Status: &banned})
	require.NoError(t, err)
	assert.Equal(t, model.UserBanned, u.Status)

	bad := model.UserRole("root")
	_, err = c.UpdateUser(ctx, students[0].ID, model.UserPatch{Role: &bad})
	assert.Error(t, err)

	enr, err := c.ListEnrollments(ctx, api.EnrollmentFilter{UserID: students[0].ID})
	require.NoError(t, err)
	require.Len(t, enr, 1)
	assert.Equal(t, model.PaymentPaid, enr[0].PaymentStatus)

	one, err := c.GetEnrollment(ctx, enr[0].ID)
	require.NoError(t, err)
	assert.Equal(t, enr[0].CourseID, one.CourseID)
}

func TestCourseCRUD(t *testing.T) {
	_, c := setup(t)
	ctx := context.Background()

	title := "Advanced Go Ops"
	course, err := c.CreateCourse(ctx, model.CoursePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "advanced-go-ops", course.Slug)
	assert.Equal(t, model.CourseStatusPrivate, course.Status)

	live := model.CourseStatusLive
	course, err = c.UpdateCourse(ctx, course.ID, model.CoursePatch{Status: &live})
	require.NoError(t, err)
	assert.Equal(t, model.CourseStatusLive, course.Status)
	assert.Equal(t, title, course.Title)

	require.NoError(t, c.DeleteCourse(ctx, course.ID))
	_, err = c.GetCourse(ctx, course.ID)
	assert.True(t, api.IsNotFound(err))
}

type recordingNotifier struct{ success, errors []string }

func (n *recordingNotifier) Success(m string) { n.success = append(n.success, m) }
func (n *recordingNotifier) Error(m string)   { n.errors = append(n.errors, m) }

func TestRemote_DragAgainstServer(t *testing.T) {
	_, c := setup(t)
	ctx := context.Background()
	course := demoCourse(t, c)
	n := &recordingNotifier{}
	rs := remote.New(c, remote.Options{Notifier: n})

	cur, err := rs.FetchCurriculum(ctx, course.ID)
	require.NoError(t, err)
	tree := curriculum.NewTree(course.ID)
	tree.ReplaceOnFetch(cur.Sections, cur.Contents)

	sid := tree.SectionIDs()[1]
	ids := tree.ChapterIDs(sid)
	require.Len(t, ids, 3)

	ctl := curriculum.NewController(tree)
	drop, err := ctl.Move(curriculum.DragPayload{Kind: curriculum.DragChapter, ID: ids[2]}, ids[0])
	require.NoError(t, err)
	require.NoError(t, rs.ApplyDrop(ctx, course.ID, drop))
	assert.Empty(t, n.errors)

	cur, err = rs.FetchCurriculum(ctx, course.ID)
	require.NoError(t, err)
	tree.ReplaceOnFetch(cur.Sections, cur.Contents)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, tree.ChapterIDs(sid))
	for i, ch := range cur.Contents[sid] {
		assert.Equal(t, i+1, ch.Order)
	}
}

func TestRemote_ExpiredTokenNavigatesToLogin(t *testing.T) {
	srv, _ := setup(t)
	c := api.New(api.Options{
		BaseURL: srv.URL,
		Tokens:  tokenFunc(func(context.Context) (string, error) { return "", session.ErrExpired }),
	})
	var routes []string
	n := &recordingNotifier{}
	rs := remote.New(c, remote.Options{
		Notifier:  n,
		Navigator: remote.NavigatorFunc(func(r string) { routes = append(routes, r) }),
	})

	_, err := rs.CreateSection(context.Background(), "any", model.NewSection{Title: "x"})
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, []string{remote.RouteLogin}, routes)
	require.Len(t, n.errors, 1)
	assert.True(t, strings.Contains(strings.ToLower(n.errors[0]), "log in"))
}
