package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type processRequest struct {
	URL string `json:"url"`
}

type processResponse struct {
	VideoID          string `json:"video_id"`
	Language         string `json:"language"`
	Passages         int    `json:"passages"`
	AlreadyProcessed bool   `json:"already_processed"`
	Message          string `json:"message"`
}

type chatRequest struct {
	VideoID  string `json:"video_id"`
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type summarizeRequest struct {
	VideoID string `json:"video_id"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Server is running. Process a video to start chatting.",
	})
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.api.Stats())
}

func (s *Server) processVideo(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.URL) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}

	result, err := s.api.ProcessVideo(c.Request().Context(), req.URL)
	if err != nil {
		return err
	}

	msg := "video processed"
	if result.AlreadyProcessed {
		msg = "video already processed"
	}
	return c.JSON(http.StatusOK, processResponse{
		VideoID:          result.VideoID,
		Language:         result.Language,
		Passages:         result.Passages,
		AlreadyProcessed: result.AlreadyProcessed,
		Message:          msg,
	})
}

func (s *Server) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.VideoID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_id is required")
	}
	if strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}

	answer, err := s.api.Chat(c.Request().Context(), req.VideoID, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{Answer: answer})
}

func (s *Server) summarizeVideo(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.VideoID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_id is required")
	}

	summary, err := s.api.Summary(req.VideoID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summarizeResponse{Summary: summary})
}
