package v1handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"yourplaces/internal/places"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/ogen-go/ogen/conv"
	"github.com/ogen-go/ogen/json"
)

const (
	// multipartOverhead leaves room for the text fields and part headers next to the image.
	multipartOverhead = 64 << 10
	maxJSONBodyBytes  = 64 << 10
	sniffLen          = 512
)

var imageExtensions = map[string]string{ //nolint: gochecknoglobals
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// EncodePlace writes a place as a JSON object.
func EncodePlace(e *jx.Encoder, p *domain.Place) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { json.EncodeUUID(e, uuid.UUID(p.ID)) })
		e.Field("creator", func(e *jx.Encoder) { json.EncodeUUID(e, uuid.UUID(p.Creator)) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("address", func(e *jx.Encoder) { e.Str(p.Address) })
		e.Field("location", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("lat", func(e *jx.Encoder) { e.Float64(p.Location.Lat) })
				e.Field("lng", func(e *jx.Encoder) { e.Float64(p.Location.Lng) })
			})
		})
		e.Field("image", func(e *jx.Encoder) { e.Str(p.Image) })
		e.Field("createdAt", func(e *jx.Encoder) { json.EncodeDateTime(e, p.CreatedAt.UTC()) })
		if !p.UpdatedAt.IsZero() {
			e.Field("updatedAt", func(e *jx.Encoder) { json.EncodeDateTime(e, p.UpdatedAt.UTC()) })
		}
	})
}

// DecodePlaceChanges reads the body of an update request. Unknown fields are ignored.
func DecodePlaceChanges(d *jx.Decoder) (places.PlaceChanges, error) {
	var changes places.PlaceChanges
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "title":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "decode field \"title\"")
			}
			changes.Title = v
		case "description":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "decode field \"description\"")
			}
			changes.Description = v
		default:
			return d.Skip()
		}

		return nil
	}); err != nil {
		return places.PlaceChanges{}, errors.Wrap(err, "decode PlaceChanges")
	}

	return changes, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := conv.ToUUID(r.PathValue(name))
	if err != nil {
		return uuid.Nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid %s", name)
	}

	return id, nil
}

func writePlace(w http.ResponseWriter, status int, p *domain.Place) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("place", func(e *jx.Encoder) { EncodePlace(e, p) })
		})
	})
}

// GetPlace returns a single place.
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	pid, err := pathUUID(r, "pid")
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	p, err := h.deps.Places.ByID(r.Context(), domain.PlaceID(pid))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writePlace(w, http.StatusOK, p)
}

// ListUserPlaces returns the places of a user. A user without places yields an empty list.
func (h *Handler) ListUserPlaces(w http.ResponseWriter, r *http.Request) {
	uid, err := pathUUID(r, "uid")
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	list, err := h.deps.Places.ListByOwner(r.Context(), domain.UserID(uid))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("places", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range list {
						EncodePlace(e, &list[i])
					}
				})
			})
		})
	})
}

// CreatePlace stores the uploaded image and creates a place owned by the caller.
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.options.MaxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.options.MaxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "image is too large"))

			return
		}
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid multipart form"))

		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "image is required"))

		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.options.MaxImageBytes {
		h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "image is too large"))

		return
	}

	image, err := h.stageImage(ctx, file)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	// the manager discards the staged image when creation fails
	p, err := h.deps.Places.Create(ctx, places.NewPlace{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
		Image:       image,
		OwnerID:     GetUserIDFromContext(ctx),
	})
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writePlace(w, http.StatusCreated, p)
}

// stageImage sniffs the content type and writes the image under a fresh key.
func (h *Handler) stageImage(ctx context.Context, file multipart.File) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "could not read image")
	}
	head = head[:n]

	ext, ok := imageExtensions[http.DetectContentType(head)]
	if !ok {
		return "", serrors.With(serrors.ErrBadRequest, "image must be a png or jpeg")
	}

	key := "images/" + uuid.NewString() + ext
	stored, err := h.deps.Assets.Put(ctx, key, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		return "", serrors.Wrap(serrors.ErrStorage, err, "could not store image")
	}

	return stored, nil
}

// UpdatePlace changes title and description of a place owned by the caller.
func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pid, err := pathUUID(r, "pid")
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	changes, err := DecodePlaceChanges(jx.Decode(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes), sniffLen))
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	p, err := h.deps.Places.UpdateByID(ctx, GetUserIDFromContext(ctx), domain.PlaceID(pid), changes)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writePlace(w, http.StatusOK, p)
}

// DeletePlace removes a place owned by the caller.
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pid, err := pathUUID(r, "pid")
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	if err := h.deps.Places.DeleteByID(ctx, GetUserIDFromContext(ctx), domain.PlaceID(pid)); err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("message", func(e *jx.Encoder) { e.Str("Deleted place.") })
		})
	})
}
