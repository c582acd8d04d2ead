package model

import "time"

type CourseStatus string

const (
	CourseStatusPrivate    CourseStatus = "private"
	CourseStatusLive       CourseStatus = "live"
	CourseStatusInProgress CourseStatus = "inProgress"
	CourseStatusCompleted  CourseStatus = "completed"
)

type Course struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug,omitempty"`
	Description     string       `json:"description,omitempty"`
	ThumbnailURL    string       `json:"thumbnailUrl,omitempty"`
	StartDate       *time.Time   `json:"startDate,omitempty"`
	EndDate         *time.Time   `json:"endDate,omitempty"`
	Price           float64      `json:"price"`
	DiscountedPrice *float64     `json:"discountedPrice,omitempty"`
	Currency        string       `json:"currency,omitempty"`
	Status          CourseStatus `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type Section struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChapterType string

const (
	ChapterTypeVideo      ChapterType = "video"
	ChapterTypeLiveClass  ChapterType = "liveClass"
	ChapterTypeAssignment ChapterType = "assignment"
	ChapterTypeArticle    ChapterType = "article"
)

// ChapterTypes lists the chapter types in display order.
var ChapterTypes = []ChapterType{
	ChapterTypeVideo,
	ChapterTypeLiveClass,
	ChapterTypeAssignment,
	ChapterTypeArticle,
}

// Chapter is a single piece of section content. The API calls it "content".
type Chapter struct {
	ID            string      `json:"id"`
	SectionID     string      `json:"sectionId"`
	Title         string      `json:"title"`
	Type          ChapterType `json:"type"`
	Body          string      `json:"body,omitempty"`
	VideoURL      *string     `json:"videoUrl,omitempty"`
	AttachmentURL *string     `json:"attachmentUrl,omitempty"`
	XP            int         `json:"xp"`
	Order         int         `json:"order"`

	// Access window, relative to the learner's enrollment date (days).
	AccessFrom *int `json:"accessFrom,omitempty"`
	AccessTill *int `json:"accessTill,omitempty"`
	// Access window, absolute.
	AccessFromDate *time.Time `json:"accessFromDate,omitempty"`
	AccessTillDate *time.Time `json:"accessTillDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type ChapterProgress struct {
	ContentID   string     `json:"contentId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Certificate struct {
	Issued   bool       `json:"issued"`
	IssuedAt *time.Time `json:"issuedAt,omitempty"`
	URL      string     `json:"url,omitempty"`
}

type Enrollment struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	CourseID        string            `json:"courseId"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	AmountPaid      float64           `json:"amountPaid"`
	Progress        float64           `json:"progress"`
	ChapterProgress []ChapterProgress `json:"chapterProgress,omitempty"`
	Certificate     Certificate       `json:"certificate"`
	EnrolledAt      time.Time         `json:"enrolledAt"`
}

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleOperations UserRole = "operations"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserBanned    UserStatus = "banned"
	UserSuspended UserStatus = "suspended"
)

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ReorderType string

const (
	ReorderSection ReorderType = "section"
	ReorderContent ReorderType = "content"
)

// OrderEntry is one row of a batch reorder.
type OrderEntry struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ReorderRequest is the body of the sort-order endpoint. Orders are 1-based and contiguous.
type ReorderRequest struct {
	Type        ReorderType  `json:"type"`
	SortedOrder []OrderEntry `json:"sortedOrder"`
}

func ValidCourseStatus(s CourseStatus) bool {
	switch s {
	case CourseStatusPrivate, CourseStatusLive, CourseStatusInProgress, CourseStatusCompleted:
		return true
	}
	return false
}

func ValidChapterType(t ChapterType) bool {
	for _, x := range ChapterTypes {
		if x == t {
			return true
		}
	}
	return false
}

func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleInstructor, RoleOperations:
		return true
	}
	return false
}

func ValidUserStatus(s UserStatus) bool {
	switch s {
	case UserActive, UserBanned, UserSuspended:
		return true
	}
	return false
}
