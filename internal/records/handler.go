package records

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/commission"
	"cruzados-backend/internal/shared/server/middleware"
	"cruzados-backend/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 25 << 20 // 25MB

const (
	msgNotFound          = "No se encontró la información."
	msgUnknownCommission = "La comisión indicada no existe."
	msgBadRequest        = "La petición no es válida."
	msgTooLarge          = "Los archivos exceden el tamaño permitido."
	msgStorageFailed     = "No se pudieron guardar los archivos adjuntos."
	msgLoadFailed        = "Error de la base de datos: No se pudo cargar la información."
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. A non-positive maxUploadBytes uses the
// 25MB default.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches commission and record routes to rg. The write
// handlers run before create, update and delete.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	rg.GET("/commissions", h.commissions)
	rg.GET("/categories", h.categories)

	recs := rg.Group("/commissions/:commission/records")
	recs.GET("", h.list)
	recs.GET("/:id", h.get)
	recs.POST("", chain(write, h.create)...)
	recs.PUT("/:id", chain(write, h.update)...)
	recs.DELETE("/:id", chain(write, h.delete)...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

func (h *Handler) commissions(c *gin.Context) {
	out := make([]CommissionResponse, 0, len(commission.All))
	for _, cm := range commission.All {
		out = append(out, CommissionResponse{Tag: string(cm), Label: cm.Label()})
	}
	respond.OK(c, out)
}

func (h *Handler) categories(c *gin.Context) {
	respond.OK(c, Policies())
}

func (h *Handler) list(c *gin.Context) {
	cm, ok := commissionParam(c)
	if !ok {
		return
	}
	q := c.Query("q")
	recs, err := h.Svc.Search(c.Request.Context(), cm, q)
	if err != nil {
		writeError(c, err, msgLoadFailed)
		return
	}
	respond.OK(c, ListResponse{Commission: string(cm), Query: q, Records: ToResponses(cm, recs)})
}

func (h *Handler) get(c *gin.Context) {
	cm, ok := commissionParam(c)
	if !ok {
		return
	}
	id := recordParam(c)
	rec, err := h.Svc.Get(c.Request.Context(), cm, id)
	if err != nil {
		writeError(c, err, msgLoadFailed)
		return
	}
	respond.OK(c, ToResponse(cm, rec))
}

func (h *Handler) create(c *gin.Context) {
	cm, ok := commissionParam(c)
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	rec, err := h.Svc.Create(c.Request.Context(), cm, in)
	if err != nil {
		writeError(c, err, "Error de la base de datos: No se pudo crear la información.")
		return
	}
	c.Set(middleware.RecordIDKey, rec.ID)
	respond.Created(c, ToResponse(cm, rec))
}

func (h *Handler) update(c *gin.Context) {
	cm, ok := commissionParam(c)
	if !ok {
		return
	}
	id := recordParam(c)
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	rec, err := h.Svc.Update(c.Request.Context(), cm, id, in)
	if err != nil {
		writeError(c, err, "Error de la base de datos: No se pudo enmendar la información.")
		return
	}
	respond.OK(c, ToResponse(cm, rec))
}

func (h *Handler) delete(c *gin.Context) {
	cm, ok := commissionParam(c)
	if !ok {
		return
	}
	id := recordParam(c)
	if err := h.Svc.Delete(c.Request.Context(), cm, id); err != nil {
		writeError(c, err, "Error de la base de datos: No se pudo eliminar la información.")
		return
	}
	respond.NoContent(c)
}

// bindInput reads a multipart form (fields plus repeated "files" parts) or
// a JSON body without attachments.
func (h *Handler) bindInput(c *gin.Context) (Input, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req recordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailure(c, err)
			return Input{}, false
		}
		return Input{Name: req.Name, Category: req.Category, Description: req.Description}, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		bindFailure(c, err)
		return Input{}, false
	}
	in := Input{
		Name:        firstValue(form, "name"),
		Category:    firstValue(form, "category"),
		Description: firstValue(form, "description"),
	}
	for _, fh := range form.File["files"] {
		up, err := readUpload(fh)
		if err != nil {
			bindFailure(c, err)
			return Input{}, false
		}
		in.Uploads = append(in.Uploads, up)
	}
	return in, true
}

func readUpload(fh *multipart.FileHeader) (Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func firstValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func bindFailure(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", msgTooLarge, gin.H{"limitBytes": tooLarge.Limit})
		return
	}
	respond.Error(c, http.StatusBadRequest, "bad_request", msgBadRequest, nil)
}

// commissionParam resolves the :commission path segment, answering 404
// for a tag outside the commission table.
func commissionParam(c *gin.Context) (commission.Commission, bool) {
	cm, err := commission.Parse(c.Param("commission"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_commission", msgUnknownCommission, gin.H{"commission": c.Param("commission")})
		return "", false
	}
	c.Set(middleware.CommissionKey, string(cm))
	return cm, true
}

func recordParam(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.RecordIDKey, id)
	return id
}

// writeError maps service errors onto the response envelope. storeMsg is
// the generic message shown for store failures; their detail stays in the
// logs.
func writeError(c *gin.Context, err error, storeMsg string) {
	var verr *ValidationError
	var storageErr *StorageError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", verr.Message, verr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", msgNotFound, nil)
	case errors.Is(err, commission.ErrUnknownCommission):
		respond.Error(c, http.StatusNotFound, "unknown_commission", msgUnknownCommission, nil)
	case errors.As(err, &storageErr):
		respond.Error(c, http.StatusBadGateway, "storage_error", msgStorageFailed, gin.H{"file": storageErr.FileName})
	default:
		respond.Error(c, http.StatusInternalServerError, "store_error", storeMsg, nil)
	}
}
