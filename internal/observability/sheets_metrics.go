package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/geocoder89/lentpath/internal/apperr"
)

func (p *Prom) ObserveSheets(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.SheetsErrorsTotal.WithLabelValues(op, classifySheetsErr(err)).Inc()
	}
	p.SheetsOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifySheetsErr(err error) string {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusNotFound:
			return "not_found"
		case http.StatusUnauthorized, http.StatusForbidden:
			return "permission_denied"
		case http.StatusTooManyRequests:
			return "quota"
		default:
			return "http_" + strconv.Itoa(gErr.Code)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	if kind := apperr.KindOf(err); kind != apperr.KindUnknown {
		return kind.String()
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
