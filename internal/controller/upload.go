package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/portfolio-backend/internal/util"
)

// (POST /upload/:kind). Multipart upload for photo, resume, project-pdf and
// project-image files.
func (c *Controller) UploadFile(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return util.NewAppError(util.KindFileUpload, "multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return util.WrapAppError(util.KindFileUpload, err, "failed to read uploaded file")
	}
	defer file.Close()

	url, err := c.uploads.Upload(
		ctx.Request().Context(),
		ctx.Param("kind"),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
		actorFrom(ctx),
		metaFrom(ctx),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"url": url})
}
