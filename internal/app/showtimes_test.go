package app

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/GNANESWARARAO24/revticket-aws/internal/mocks"
)

type ShowtimesTestSuite struct {
	suite.Suite
	app          *Application
	showtimeRepo *mocks.MockShowtimeRepo
}

func (s *ShowtimesTestSuite) SetupTest() {
	s.showtimeRepo = new(mocks.MockShowtimeRepo)

	s.app = newTestApplication(func(a *Application) {
		a.showtimeRepo = s.showtimeRepo
	})
}

func TestShowtimesSuite(t *testing.T) {
	suite.Run(t, new(ShowtimesTestSuite))
}

func conflictURL(params map[string]string) string {
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}

	return "/showtimes/conflict?" + query.Encode()
}

func (s *ShowtimesTestSuite) TestCheckConflictHandler() {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		params       map[string]string
		setupMocks   func()
		wantStatus   int
		wantConflict bool
	}{
		{
			name: "should fail when screenId is missing",
			params: map[string]string{
				"showDateTime":    start.Format(time.RFC3339),
				"durationMinutes": "120",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "should fail when showDateTime is malformed",
			params: map[string]string{
				"screenId":        "2",
				"showDateTime":    "today at noon",
				"durationMinutes": "120",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "should fail when durationMinutes is not positive",
			params: map[string]string{
				"screenId":        "2",
				"showDateTime":    start.Format(time.RFC3339),
				"durationMinutes": "0",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "should report an overlapping showtime",
			params: map[string]string{
				"screenId":        "2",
				"showDateTime":    start.Format(time.RFC3339),
				"durationMinutes": "120",
			},
			setupMocks: func() {
				s.showtimeRepo.On("HasConflict", mock.Anything, 2, start, 2*time.Hour, 0).
					Return(true, nil)
			},
			wantStatus:   http.StatusOK,
			wantConflict: true,
		},
		{
			name: "should exclude the named showtime when rescheduling",
			params: map[string]string{
				"screenId":          "2",
				"showDateTime":      start.Format(time.RFC3339),
				"durationMinutes":   "90",
				"excludeShowtimeId": "7",
			},
			setupMocks: func() {
				s.showtimeRepo.On("HasConflict", mock.Anything, 2, start, 90*time.Minute, 7).
					Return(false, nil)
			},
			wantStatus:   http.StatusOK,
			wantConflict: false,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.showtimeRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodGet, conflictURL(tt.params), nil)

			s.app.CheckConflictHandler(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp ConflictCheckResponse
				err := json.NewDecoder(w.Body).Decode(&resp)
				s.Require().NoError(err)

				s.Equal(tt.wantConflict, resp.Conflict)
			}
		})
	}
}

func (s *ShowtimesTestSuite) TestGetShowtimeStatsHandler() {
	stats := &domain.ShowtimeStats{
		ShowtimeID:     1,
		TotalSeats:     96,
		AvailableSeats: 90,
		HeldSeats:      4,
		BookedSeats:    2,
		GeneratedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		showtimeID string
		setupMocks func()
		wantStatus int
	}{
		{
			name:       "should fail when showtime ID is invalid",
			showtimeID: "abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "should fail when showtime does not exist",
			showtimeID: "999",
			setupMocks: func() {
				s.showtimeRepo.On("Stats", mock.Anything, 999, mock.Anything).
					Return(nil, domain.ErrShowtimeNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "should return showtime stats",
			showtimeID: "1",
			setupMocks: func() {
				s.showtimeRepo.On("Stats", mock.Anything, 1, mock.Anything).Return(stats, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.showtimeRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodGet, "/showtimes/"+tt.showtimeID+"/stats", nil)
			r = withURLParams(r, map[string]string{"showtimeID": tt.showtimeID})

			s.app.GetShowtimeStatsHandler(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp domain.ShowtimeStats
				err := json.NewDecoder(w.Body).Decode(&resp)
				s.Require().NoError(err)

				s.Equal(96, resp.TotalSeats)
				s.Equal(90, resp.AvailableSeats)
			}
		})
	}
}
