package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// streams a csv document as a file download attachment
func WriteCSV(c *gin.Context, filename string, header []string, rows [][]string) error {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// builds a timestamped export filename, e.g. "users-2026-08-31.csv"
func Filename(kind string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", kind, now.UTC().Format("2006-01-02"))
}
