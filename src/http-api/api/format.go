package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jack-barr3tt/pex-formatter/src/common/output"
	"github.com/jack-barr3tt/pex-formatter/src/common/pex"
	"github.com/jack-barr3tt/pex-formatter/src/common/sink"
)

const defaultTimetable = "upload.pex"

// PostFormat parses a PEX file sent as the raw body or a multipart "file"
// field and responds with its events in the requested format.
func (s *APIServer) PostFormat(c *fiber.Ctx) error {
	format, err := output.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
	}

	body, filename, err := uploadedTimetable(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
	}
	defer body.Close()

	timetable := c.Query("timetable", filename)
	if timetable == "" {
		timetable = defaultTimetable
	}

	start := time.Now()
	events, err := s.Formatter.FormatReader(timetable, body)
	s.Metrics.ObserveFormat(events, time.Since(start), err)
	if err != nil {
		return s.formatError(c, timetable, err)
	}

	if s.Publisher != nil {
		n, err := sink.PublishEvents(c.UserContext(), s.Publisher, s.Metrics, timetable, events, s.BatchSize)
		if err != nil {
			s.Logger.Errorw("failed to publish events", "timetable", timetable, "error", err)
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error:   "Publish error",
				Message: err.Error(),
			})
		}
		s.Logger.Infow("published events", "timetable", timetable, "sink", s.Publisher.Name(), "batches", n)
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, format, events); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Output error",
			Message: err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(output.OutputPath(timetable, format))))
	return c.Send(buf.Bytes())
}

func uploadedTimetable(c *fiber.Ctx) (io.ReadCloser, string, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, "", errors.New(`multipart upload needs a "file" field`)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		return f, fh.Filename, nil
	}

	if len(c.Body()) == 0 {
		return nil, "", errors.New("request body is empty")
	}
	return io.NopCloser(bytes.NewReader(c.Body())), "", nil
}

func (s *APIServer) formatError(c *fiber.Ctx, timetable string, err error) error {
	if errors.Is(err, pex.ErrMalformedRecord) || errors.Is(err, pex.ErrUnexpectedPrefix) || errors.Is(err, pex.ErrRunStructure) {
		s.Logger.Warnw("rejected timetable", "timetable", timetable, "error", err)
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "Invalid timetable",
			Message: err.Error(),
			Line:    pex.ErrorLine(err),
		})
	}

	s.Logger.Errorw("failed to format timetable", "timetable", timetable, "error", err)
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "Format error",
		Message: err.Error(),
	})
}
