package devserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lms-admin/internal/model"
)

func (s *Server) handleMe(c echo.Context) error {
	claims, ok := contextClaimsOf(c)
	if !ok {
		return errUnauthorized
	}
	u, err := s.store.GetUser(c.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) handleListCourses(c echo.Context) error {
	out, err := s.store.ListCourses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetCourse(c echo.Context) error {
	out, err := s.store.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateCourse(c echo.Context) error {
	var p model.CoursePatch
	if err := c.Bind(&p); err != nil {
		return errBadRequest("invalid body")
	}
	out, err := s.store.CreateCourse(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (s *Server) handleUpdateCourse(c echo.Context) error {
	var p model.CoursePatch
	if err := c.Bind(&p); err != nil {
		return errBadRequest("invalid body")
	}
	out, err := s.store.UpdateCourse(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteCourse(c echo.Context) error {
	if err := s.store.DeleteCourse(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListSections(c echo.Context) error {
	out, err := s.store.ListSections(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateSection(c echo.Context) error {
	var in model.NewSection
	if err := c.Bind(&in); err != nil {
		return errBadRequest("invalid body")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return errBadRequest("title is required")
	}
	out, err := s.store.CreateSection(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (s *Server) handleUpdateSection(c echo.Context) error {
	var p model.SectionPatch
	if err := c.Bind(&p); err != nil {
		return errBadRequest("invalid body")
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return errBadRequest("title is required")
	}
	out, err := s.store.UpdateSection(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteSection(c echo.Context) error {
	if err := s.store.DeleteSection(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListContents(c echo.Context) error {
	out, err := s.store.ListContents(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetContent(c echo.Context) error {
	out, err := s.store.GetContent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateContent(c echo.Context) error {
	var in model.NewChapter
	if err := c.Bind(&in); err != nil {
		return errBadRequest("invalid body")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return errBadRequest("title is required")
	}
	if in.Type == "" {
		in.Type = model.ChapterTypeArticle
	}
	if !model.ValidChapterType(in.Type) {
		return errBadRequest("invalid type")
	}
	out, err := s.store.CreateContent(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// handleUpdateContent accepts a partial update; null clears a field.
func (s *Server) handleUpdateContent(c echo.Context) error {
	var p model.ChapterPatch
	if err := c.Bind(&p); err != nil {
		return errBadRequest("invalid body")
	}
	if p.Title.IsUnset() {
		return errBadRequest("title cannot be cleared")
	}
	if v, ok := p.Title.Value(); ok && strings.TrimSpace(v) == "" {
		return errBadRequest("title is required")
	}
	if p.Type.IsUnset() {
		return errBadRequest("type cannot be cleared")
	}
	if v, ok := p.Type.Value(); ok && !model.ValidChapterType(v) {
		return errBadRequest("invalid type")
	}
	for _, f := range []model.Field[int]{p.XP, p.AccessFrom, p.AccessTill} {
		if v, ok := f.Value(); ok && v < 0 {
			return errBadRequest("numeric fields must be >= 0")
		}
	}
	out, err := s.store.UpdateContent(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteContent(c echo.Context) error {
	if err := s.store.DeleteContent(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSortOrder(c echo.Context) error {
	var req model.ReorderRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest("invalid body")
	}
	if err := s.store.Reorder(c.Request().Context(), req); err != nil {
		if isNoRows(err) {
			return errBadRequest("unknown id in sortedOrder")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListEnrollments(c echo.Context) error {
	out, err := s.store.ListEnrollments(c.Request().Context(), c.QueryParam("courseId"), c.QueryParam("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetEnrollment(c echo.Context) error {
	out, err := s.store.GetEnrollment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleListUsers(c echo.Context) error {
	out, err := s.store.ListUsers(c.Request().Context(), c.QueryParam("role"), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetUser(c echo.Context) error {
	out, err := s.store.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	var p model.UserPatch
	if err := c.Bind(&p); err != nil {
		return errBadRequest("invalid body")
	}
	out, err := s.store.UpdateUser(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
