package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuumbleweed/xerr"

	"timesheet-summary/src/pkg/timesheet"
)

// Wednesday 2026-09-02; current week is 2026-08-31 to 2026-09-06.
var testNow = time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)

/*
stubSender records sent messages and optionally fails, standing in for a
real provider.
*/
type stubSender struct {
	Fail bool

	Recipients []string
	Subject    string
	TextBody   string
	HTMLBody   string
	SendCount  int
}

func (sender *stubSender) Send(recipients []string, subject string, textBody string, htmlBody string) *xerr.Error {
	sender.SendCount += 1
	sender.Recipients = recipients
	sender.Subject = subject
	sender.TextBody = textBody
	sender.HTMLBody = htmlBody

	if sender.Fail {
		return xerr.NewError(fmt.Errorf("simulated transport failure"), "send email", subject)
	}
	return nil
}

const validCSV = `Category,Sub-Category,Line Item,Planned,Actual,Week Flag
Dev,API,Auth,10,8,current
Dev,API,Auth,5,9,current
Dev,UI,Login,4,,next
`

func newUploadRequest(t *testing.T, fileName string, fileContent string, recipient string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if recipient != "" {
		require.NoError(t, writer.WriteField("receiver_email", recipient))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/upload_timesheet", &body)
	request.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return request
}

func performUpload(t *testing.T, handler *UploadHandler, request *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	server := echo.New()
	recorder := httptest.NewRecorder()
	c := server.NewContext(request, recorder)

	require.NoError(t, handler.UploadTimesheet(c))
	return recorder
}

func newTestHandler(sender *stubSender) *UploadHandler {
	return &UploadHandler{
		Sender: sender,
		Policy: timesheet.MissingActualZero,
		Now:    func() time.Time { return testNow },
	}
}

func TestUploadTimesheet_Success(t *testing.T) {
	sender := &stubSender{}
	handler := newTestHandler(sender)

	recorder := performUpload(t, handler, newUploadRequest(t, "timesheet.csv", validCSV, "user@example.com"))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response UploadResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Email sent.", response.Message)
	assert.Equal(t, "2026-08-31 to 2026-09-06", response.CurrentWeekRange)
	assert.Equal(t, "2026-09-07 to 2026-09-13", response.NextWeekRange)
	assert.Equal(t, 2, response.CurrentRows)
	assert.Equal(t, 1, response.NextRows)
	assert.Equal(t, 1, response.Groups)

	require.Equal(t, 1, sender.SendCount)
	assert.Equal(t, []string{"user@example.com"}, sender.Recipients)
	assert.Equal(t, "Weekly Summary: 2026-08-31 to 2026-09-06", sender.Subject)
	assert.Contains(t, sender.TextBody, "Dev / API / Auth: planned 15.00, actual 17.00, deviation +2.00")
	assert.Contains(t, sender.HTMLBody, "Next week plan")
}

func TestUploadTimesheet_MissingRecipient(t *testing.T) {
	sender := &stubSender{}
	handler := newTestHandler(sender)

	recorder := performUpload(t, handler, newUploadRequest(t, "timesheet.csv", validCSV, ""))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, StageValidation, response.Stage)
	assert.Equal(t, 0, sender.SendCount)
}

func TestUploadTimesheet_DefaultRecipientFallback(t *testing.T) {
	sender := &stubSender{}
	handler := newTestHandler(sender)
	handler.DefaultRecipient = "manager@example.com"

	recorder := performUpload(t, handler, newUploadRequest(t, "timesheet.csv", validCSV, ""))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"manager@example.com"}, sender.Recipients)
}

func TestUploadTimesheet_MissingFile(t *testing.T) {
	sender := &stubSender{}
	handler := newTestHandler(sender)

	recorder := performUpload(t, handler, newUploadRequest(t, "", "", "user@example.com"))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, StageValidation, response.Stage)
	assert.Equal(t, 0, sender.SendCount)
}

func TestUploadTimesheet_UnreadableFileIsParseStage(t *testing.T) {
	sender := &stubSender{}
	handler := newTestHandler(sender)

	recorder := performUpload(t, handler, newUploadRequest(t, "timesheet.xlsx", "not a workbook", "user@example.com"))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, StageParse, response.Stage)
	assert.Equal(t, 0, sender.SendCount)
}

func TestUploadTimesheet_MissingActualColumnIsValidationStage(t *testing.T) {
	sender := &stubSender{}
	handler := newTestHandler(sender)

	csvText := "Category,Line Item,Planned,Week Flag\nDev,Auth,10,current\n"
	recorder := performUpload(t, handler, newUploadRequest(t, "timesheet.csv", csvText, "user@example.com"))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, StageValidation, response.Stage)
	assert.Equal(t, 0, sender.SendCount, "no email may be composed for an invalid upload")
}

func TestUploadTimesheet_OnlyNextWeekRowsIsValidationStage(t *testing.T) {
	sender := &stubSender{}
	handler := newTestHandler(sender)

	csvText := strings.Join([]string{
		"Category,Line Item,Planned,Actual,Week Flag",
		"Dev,Login,4,,next",
		"Dev,Logout,2,,next",
	}, "\n")
	recorder := performUpload(t, handler, newUploadRequest(t, "timesheet.csv", csvText, "user@example.com"))

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, StageValidation, response.Stage)
	assert.Equal(t, 0, sender.SendCount)
}

func TestUploadTimesheet_DeliveryFailure(t *testing.T) {
	sender := &stubSender{Fail: true}
	handler := newTestHandler(sender)

	recorder := performUpload(t, handler, newUploadRequest(t, "timesheet.csv", validCSV, "user@example.com"))

	require.Equal(t, http.StatusBadGateway, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, StageDelivery, response.Stage)
	assert.NotContains(t, recorder.Body.String(), "Email sent.")
	assert.Equal(t, 1, sender.SendCount, "delivery is one best-effort attempt, never retried")
}
