package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	detectorsvc "github.com/subwise/subwise/internal/app/service/detector"
	usersvc "github.com/subwise/subwise/internal/app/service/user"
	"github.com/subwise/subwise/pkg/apperr"
	"github.com/subwise/subwise/pkg/response"
)

const maxStatementBytes = 10 << 20 // 10MB upload cap

// sampleStatement feeds the demo detection endpoint, which analyzes a fixed
// statement instead of user-provided text.
const sampleStatement = `01/02 AMAZON PRIME*2V4 MEMBERSHIP       14.99
01/03 NETFLIX.COM                       15.99
01/05 MSFT *MICROSOFT 365               6.99
01/08 SPOTIFY USA                       9.99
01/12 SHELL OIL 5744                    48.20
01/15 WHOLEFDS MKT 10233                86.41
01/19 PLANET FIT CLUB FEES              24.99`

// pdfPlaceholderText substitutes for PDF uploads; PDF content is not parsed.
const pdfPlaceholderText = "Bank statement uploaded as PDF. Sample transactions: NETFLIX.COM 15.99, SPOTIFY USA 9.99"

var allowedStatementTypes = map[string]bool{
	"text/plain":      true,
	"text/csv":        true,
	"application/pdf": true,
}

type detectResponse struct {
	Message               string                  `json:"message"`
	DetectedSubscriptions []detectorsvc.Candidate `json:"detected_subscriptions"`
}

func runDetection(c *gin.Context, users *usersvc.Service, det *detectorsvc.Service, statementText string) {
	userID := c.Param("id")
	if _, err := users.ConsumeDetection(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	detected := det.Detect(c.Request.Context(), statementText)
	response.OK(c, detectResponse{
		Message:               fmt.Sprintf("Detected %d potential subscriptions", len(detected)),
		DetectedSubscriptions: detected,
	})
}

// @Summary      Detect subscriptions
// @Description  Runs AI detection over a built-in sample statement.
// @Tags         Detection
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/detect-subscriptions [post]
func ApiDetectSubscriptions(users *usersvc.Service, det *detectorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		runDetection(c, users, det, sampleStatement)
	}
}

// @Summary      Upload bank statement
// @Description  Accepts a statement file and runs subscription detection over its text. PDF content is not parsed.
// @Tags         Detection
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "User ID"
// @Param        file formData file true "Statement file (text/plain, text/csv or application/pdf, max 10MB)"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/users/{id}/upload-statement [post]
func ApiUploadStatement(users *usersvc.Service, det *detectorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			response.Error(c, apperr.Wrap(apperr.CodeUnprocessable, err, "statement file is required"))
			return
		}
		if fileHeader.Size > maxStatementBytes {
			response.Error(c, apperr.New(apperr.CodeTooLarge, "statement file exceeds the 10MB limit"))
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if !allowedStatementTypes[contentType] {
			response.Error(c, apperr.New(apperr.CodeUnprocessable, "unsupported file type, expected text/plain, text/csv or application/pdf"))
			return
		}

		var statementText string
		if contentType == "application/pdf" {
			statementText = pdfPlaceholderText
		} else {
			f, err := fileHeader.Open()
			if err != nil {
				response.Error(c, apperr.Wrap(apperr.CodeInternal, err, "failed to open statement file"))
				return
			}
			defer f.Close()
			raw, err := io.ReadAll(io.LimitReader(f, maxStatementBytes+1))
			if err != nil {
				response.Error(c, apperr.Wrap(apperr.CodeInternal, err, "failed to read statement file"))
				return
			}
			if len(raw) > maxStatementBytes {
				response.Error(c, apperr.New(apperr.CodeTooLarge, "statement file exceeds the 10MB limit"))
				return
			}
			statementText = strings.TrimSpace(string(raw))
		}

		runDetection(c, users, det, statementText)
	}
}

func RegisterDetectionRoutes(r gin.IRouter, users *usersvc.Service, det *detectorsvc.Service) {
	r.POST("/users/:id/detect-subscriptions", ApiDetectSubscriptions(users, det))
	r.POST("/users/:id/upload-statement", ApiUploadStatement(users, det))
}
