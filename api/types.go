// Package api holds the request and response types of the HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message   string            `json:"message"`
	RequestId string            `json:"requestId"`
	Timestamp time.Time         `json:"timestamp"`
	Errors    []ValidationError `json:"errors"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// Auth

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=70"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"version"`
}

type UserActivationRequest struct {
	Token string `json:"token" validate:"required,len=43"`
}

type UserActivationResponse struct {
	Verified bool `json:"verified"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required,len=43"`
	Password string `json:"password" validate:"required,password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=70"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// Movies

type GenreResponse struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type MovieResponse struct {
	Id              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Genres          []string  `json:"genres"`
	DurationMinutes int       `json:"durationMinutes"`
	Rating          string    `json:"rating"`
	PosterUrl       string    `json:"posterUrl"`
	ReleaseDate     time.Time `json:"releaseDate"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type MovieListResponse struct {
	Movies   []MovieResponse `json:"movies"`
	Metadata Metadata        `json:"metadata"`
}

type ShowtimeSummaryResponse struct {
	Id             int             `json:"id"`
	StartTime      time.Time       `json:"startTime"`
	Price          decimal.Decimal `json:"price"`
	TheaterName    string          `json:"theaterName"`
	AvailableSeats int             `json:"availableSeats"`
}

type MovieDetailResponse struct {
	MovieResponse
	Showtimes []ShowtimeSummaryResponse `json:"showtimes"`
}

// Seats and checkout

type SeatMapResponse struct {
	ShowtimeId  int             `json:"showtimeId"`
	MovieTitle  string          `json:"movieTitle"`
	TheaterName string          `json:"theaterName"`
	StartTime   time.Time       `json:"startTime"`
	Price       decimal.Decimal `json:"price"`
	RowsCount   int             `json:"rowsCount"`
	SeatsPerRow int             `json:"seatsPerRow"`
	BookedSeats []string        `json:"bookedSeats"`
}

type QuoteRequest struct {
	ShowtimeId int      `json:"showtimeId" validate:"required,gt=0"`
	Seats      []string `json:"seats" validate:"required,min=1,max=10,dive,seat_label"`
}

type QuoteResponse struct {
	ShowtimeId    int             `json:"showtimeId"`
	Seats         []string        `json:"seats"`
	SeatsSubtotal decimal.Decimal `json:"seatsSubtotal"`
	BookingFee    decimal.Decimal `json:"bookingFee"`
	Total         decimal.Decimal `json:"total"`
}

type CheckoutRequest struct {
	ShowtimeId    int             `json:"showtimeId" validate:"required,gt=0"`
	Seats         []string        `json:"seats" validate:"required,min=1,max=10,dive,seat_label"`
	PaymentToken  string          `json:"paymentToken" validate:"required"`
	ExpectedTotal decimal.Decimal `json:"expectedTotal" validate:"required"`
}

// Bookings

type BookingResponse struct {
	Id          int             `json:"id"`
	Reference   string          `json:"reference"`
	ShowtimeId  int             `json:"showtimeId"`
	Seats       []string        `json:"seats"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	PaymentRef  *string         `json:"paymentRef,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type BookingSummaryResponse struct {
	Id          int             `json:"id"`
	Reference   string          `json:"reference"`
	MovieTitle  string          `json:"movieTitle"`
	PosterUrl   string          `json:"posterUrl,omitempty"`
	TheaterName string          `json:"theaterName"`
	StartTime   time.Time       `json:"startTime"`
	Seats       []string        `json:"seats"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UserName    string          `json:"userName,omitempty"`
	UserEmail   string          `json:"userEmail,omitempty"`
}

type BookingListResponse struct {
	Bookings []BookingSummaryResponse `json:"bookings"`
	Metadata Metadata                 `json:"metadata"`
}

// ConfirmBookingRequest records the payment reference for a pending booking.
type ConfirmBookingRequest struct {
	PaymentRef string `json:"paymentRef" validate:"required"`
}

// Theaters

type TheaterResponse struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	RowsCount   int    `json:"rowsCount"`
	SeatsPerRow int    `json:"seatsPerRow"`
	TotalSeats  int    `json:"totalSeats"`
}

// Admin

type CreateMovieRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Description     string    `json:"description" validate:"required"`
	Genres          []string  `json:"genres" validate:"required,min=1"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,gt=0"`
	Rating          string    `json:"rating" validate:"required,oneof=G PG PG-13 R NC-17"`
	PosterUrl       string    `json:"posterUrl" validate:"omitempty,url"`
	ReleaseDate     time.Time `json:"releaseDate" validate:"required"`
	Status          string    `json:"status" validate:"required,oneof=now_showing coming_soon"`
}

type CreateShowtimeRequest struct {
	MovieId   int             `json:"movieId" validate:"required,gt=0"`
	TheaterId int             `json:"theaterId" validate:"required,gt=0"`
	Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string          `json:"time" validate:"required,datetime=15:04"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

type ShowtimeResponse struct {
	Id        int             `json:"id"`
	MovieId   int             `json:"movieId"`
	TheaterId int             `json:"theaterId"`
	StartTime time.Time       `json:"startTime"`
	Price     decimal.Decimal `json:"price"`
}

type UpdateShowtimePriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}

type UserListResponse struct {
	Users    []UserResponse `json:"users"`
	Metadata Metadata       `json:"metadata"`
}

type AuditLogResponse struct {
	Id        int            `json:"id"`
	UserId    *int           `json:"userId,omitempty"`
	Action    string         `json:"action"`
	Type      string         `json:"type"`
	IPAddress string         `json:"ipAddress"`
	UserAgent string         `json:"userAgent"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type AuditLogListResponse struct {
	Logs     []AuditLogResponse `json:"logs"`
	Metadata Metadata           `json:"metadata"`
}

type DashboardResponse struct {
	TotalUsers        int                      `json:"totalUsers"`
	TotalMovies       int                      `json:"totalMovies"`
	TotalBookings     int                      `json:"totalBookings"`
	TotalRevenue      decimal.Decimal          `json:"totalRevenue"`
	BookingsThisMonth int                      `json:"bookingsThisMonth"`
	RecentBookings    []BookingSummaryResponse `json:"recentBookings"`
}
