package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Minimal upload form so the service is usable from a browser without any
// separate frontend.
const uploadFormPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Weekly Timesheet Summary</title>
</head>
<body style="margin:0;padding:40px;background-color:#F3F4F6;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Inter,Arial,sans-serif;color:#111827;">
<div style="max-width:520px;margin:0 auto;background-color:#FFFFFF;border:1px solid #E5E7EB;border-radius:16px;padding:24px;">
<div style="font-size:20px;font-weight:800;">Weekly Timesheet Summary</div>
<div style="margin-top:6px;font-size:13px;color:#6B7280;">Upload a .xlsx or .csv timesheet and receive the summary by email.</div>
<form method="post" action="/upload_timesheet" enctype="multipart/form-data" style="margin-top:18px;">
<label style="display:block;font-size:13px;font-weight:700;">Recipient email</label>
<input type="email" name="receiver_email" required style="margin-top:6px;width:100%;padding:8px;border:1px solid #D1D5DB;border-radius:8px;">
<label style="display:block;margin-top:14px;font-size:13px;font-weight:700;">Timesheet file</label>
<input type="file" name="file" accept=".xlsx,.csv" required style="margin-top:6px;width:100%;">
<button type="submit" style="margin-top:18px;padding:10px 18px;background-color:#2563EB;color:#FFFFFF;border:none;border-radius:8px;font-weight:800;cursor:pointer;">Send summary</button>
</form>
</div>
</body>
</html>
`

func (handler *UploadHandler) Home(c echo.Context) error {
	return c.HTML(http.StatusOK, uploadFormPage)
}

func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
