package rules

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/models"
	"housing-workers/internal/refdata"
)

// DefaultMaxDocumentBytes is the upload limit when none is configured.
const DefaultMaxDocumentBytes int64 = 1 << 20

const defaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"txt":  "text/plain",
	"csv":  "text/csv",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// Extension returns the lower-case file extension without the dot.
func Extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// ContentTypeFor maps a file name to its content type. Unknown extensions are binary.
func ContentTypeFor(fileName string) string {
	if ct, ok := contentTypes[Extension(fileName)]; ok {
		return ct
	}
	return defaultContentType
}

// ValidateDocument checks an upload against the listing's document types, the size limit,
// the allowed file types and the documents already attached. On success doc's content type
// and size are set.
func ValidateDocument(doc *models.ApplicationDocument, existing []models.ApplicationDocument,
	listing *models.Listing, dict refdata.Dictionary, maxBytes int64) errors.ErrorCode {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	doc.FileName = strings.TrimSpace(doc.FileName)
	doc.DocumentName = strings.TrimSpace(doc.DocumentName)
	doc.DocumentTypeCd = strings.TrimSpace(doc.DocumentTypeCd)

	if doc.FileName == "" {
		return errors.DocumentFileNameRequired
	}
	if doc.DocumentName == "" {
		return errors.DocumentNameRequired
	}
	if !documentTypeAllowed(doc.DocumentTypeCd, listing, dict) {
		return errors.DocumentTypeInvalid
	}

	size := int64(len(doc.Content))
	switch {
	case size == 0:
		return errors.DocumentEmpty
	case size > maxBytes:
		return errors.DocumentTooLarge
	}
	if !dict.Has(refdata.FileType, Extension(doc.FileName)) {
		return errors.DocumentFileTypeInvalid
	}

	for i := range existing {
		o := &existing[i]
		if doc.ID != 0 && o.ID == doc.ID {
			continue
		}
		if sameText(o.DocumentTypeCd, doc.DocumentTypeCd) &&
			sameText(o.DocumentName, doc.DocumentName) &&
			sameText(o.FileName, doc.FileName) {
			return errors.DocumentDuplicate
		}
	}

	doc.ContentType = ContentTypeFor(doc.FileName)
	doc.Size = size
	return ""
}

// documentTypeAllowed uses the listing's own list, or the reference set when it has none.
func documentTypeAllowed(code string, listing *models.Listing, dict refdata.Dictionary) bool {
	if code == "" {
		return false
	}
	if listing == nil || len(listing.DocumentTypes) == 0 {
		return dict.Has(refdata.DocumentType, code)
	}
	for _, t := range listing.DocumentTypes {
		if t == code {
			return true
		}
	}
	return false
}

// CanComment reports whether the applicant may respond to a duplicate-application flag:
// the application is submitted or waitlisted, flagged, already has a comment thread and the
// response window has not passed.
func CanComment(app *models.HousingApplication, commentCount int, now time.Time) bool {
	if app.StatusCd != models.StatusSubmitted && app.StatusCd != models.StatusWaitlisted {
		return false
	}
	if !app.Duplicate || commentCount < 1 || app.DuplicateResponseDue == nil {
		return false
	}
	return !now.After(*app.DuplicateResponseDue)
}

// ValidateComment checks the comment text. maxLen <= 0 disables the length check.
func ValidateComment(text string, maxLen int) errors.ErrorCode {
	if strings.TrimSpace(text) == "" {
		return errors.CommentTextRequired
	}
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		return errors.CommentTooLong
	}
	return ""
}
