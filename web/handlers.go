// Package web exposes a paper-doll session over HTTP.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-paperdoll/compositor"
	"badc0de.net/pkg/go-paperdoll/grid"
	"badc0de.net/pkg/go-paperdoll/layers"
	"badc0de.net/pkg/go-paperdoll/playback"
	"badc0de.net/pkg/go-paperdoll/session"
	"badc0de.net/pkg/go-paperdoll/sheet"
)

// maxUploadSize bounds the memory a multipart upload may use.
const maxUploadSize = 32 << 20

type Handler struct {
	s *session.Session
}

// NewHandler constructs web handler for the passed session.
func NewHandler(s *session.Session) *Handler {
	return &Handler{s: s}
}

type layerView struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Visible     bool   `json:"visible"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type gridView struct {
	SheetWidth  int        `json:"sheet_width"`
	SheetHeight int        `json:"sheet_height"`
	TileWidth   int        `json:"tile_width"`
	TileHeight  int        `json:"tile_height"`
	Columns     int        `json:"columns"`
	Rows        int        `json:"rows"`
	Frames      int        `json:"frames"`
	Order       grid.Order `json:"order"`
	Established bool       `json:"established"`
}

type stateView struct {
	session.Settings
	Playback playback.State `json:"playback"`
	Offset   string         `json:"offset"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func newLayerView(l layers.SpriteLayer) layerView {
	sz := l.Image.Size()
	return layerView{
		Index:       l.OrderIndex,
		ID:          l.ID,
		DisplayName: l.DisplayName,
		Category:    l.Category,
		Visible:     l.Visible,
		Width:       sz.X,
		Height:      sz.Y,
	}
}

func (h *Handler) layers() []layerView {
	ls := h.s.Layers()
	out := make([]layerView, len(ls))
	for i, l := range ls {
		out[i] = newLayerView(l)
	}
	return out
}

func (h *Handler) grid() gridView {
	g := h.s.Grid()
	return gridView{
		SheetWidth:  g.SheetWidth,
		SheetHeight: g.SheetHeight,
		TileWidth:   g.TileWidth,
		TileHeight:  g.TileHeight,
		Columns:     g.Columns(),
		Rows:        g.Rows(),
		Frames:      g.FrameCount(),
		Order:       g.Order,
		Established: h.s.Established(),
	}
}

func (h *Handler) layersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.layers())
}

func (h *Handler) clearLayersHandler(w http.ResponseWriter, r *http.Request) {
	h.s.Clear()
	writeJSON(w, h.layers())
}

// layer looks up the layer named by the idx route variable, answering the
// request itself if there is none.
func (h *Handler) layer(w http.ResponseWriter, r *http.Request) (layers.SpriteLayer, bool) {
	idx, ok := layerIndex(w, r)
	if !ok {
		return layers.SpriteLayer{}, false
	}
	l, ok := h.s.Layer(idx)
	if !ok {
		http.Error(w, "no such layer", http.StatusNotFound)
		return layers.SpriteLayer{}, false
	}
	return l, true
}

func (h *Handler) layerHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := h.layer(w, r)
	if !ok {
		return
	}
	writeJSON(w, newLayerView(l))
}

// layerSheetHandler serves the sheet of one layer. Uploaded sheets are sent
// back as they were received; other images are encoded as PNG.
func (h *Handler) layerSheetHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := h.layer(w, r)
	if !ok {
		return
	}
	if s, ok := l.Image.(*sheet.Sheet); ok {
		w.Header().Set("Content-Type", "image/"+s.Format())
		w.WriteHeader(http.StatusOK)
		w.Write(s.Bytes())
		return
	}

	img, err := l.Image.Decode()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) layerSheetDataURLHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := h.layer(w, r)
	if !ok {
		return
	}
	var u string
	if s, ok := l.Image.(*sheet.Sheet); ok {
		u = s.DataURL()
	} else {
		img, err := l.Image.Decode()
		if err == nil {
			u, err = sheet.EncodeDataURL(img)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, u)
}

// readSheets collects the sheets of an upload: multipart "sheet" files, or
// a "dataurl" form value with an optional "name".
func readSheets(r *http.Request) ([]sheet.Resource, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && err != http.ErrNotMultipart {
		return nil, errors.Wrap(err, "parsing upload")
	}

	var out []sheet.Resource
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["sheet"] {
			f, err := fh.Open()
			if err != nil {
				return nil, errors.Wrapf(err, "opening %q", fh.Filename)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, errors.Wrapf(err, "reading %q", fh.Filename)
			}
			s, err := sheet.New(fh.Filename, data)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	if u := r.FormValue("dataurl"); u != "" {
		name := r.FormValue("name")
		if name == "" {
			name = "upload.png"
		}
		s, err := sheet.FromDataURL(name, u)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.New("no sheet in request")
	}
	return out, nil
}

func (h *Handler) addLayersHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	sheets, err := readSheets(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	category := r.FormValue("category")
	for _, s := range sheets {
		if _, err := h.s.AddLayer(category, s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	writeJSON(w, h.layers())
}

func layerIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(mux.Vars(r)["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return 0, false
	}
	return idx, true
}

func (h *Handler) moveLayerHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := layerIndex(w, r)
	if !ok {
		return
	}
	to, err := strconv.Atoi(r.FormValue("to"))
	if err != nil {
		http.Error(w, "to not a number", http.StatusBadRequest)
		return
	}
	// An out of range move is a no-op, not an error.
	if !h.s.Move(idx, to) {
		glog.V(2).Infof("web: ignoring move of layer %d to %d", idx, to)
	}
	writeJSON(w, h.layers())
}

func (h *Handler) removeLayerHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := layerIndex(w, r)
	if !ok {
		return
	}
	if !h.s.Remove(idx) {
		http.Error(w, "no such layer", http.StatusNotFound)
		return
	}
	writeJSON(w, h.layers())
}

func (h *Handler) visibleLayerHandler(w http.ResponseWriter, r *http.Request) {
	idx, ok := layerIndex(w, r)
	if !ok {
		return
	}
	var found bool
	if v := r.FormValue("v"); v != "" {
		visible, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "v not a boolean", http.StatusBadRequest)
			return
		}
		found = h.s.SetVisible(idx, visible)
	} else {
		found = h.s.Toggle(idx)
	}
	if !found {
		http.Error(w, "no such layer", http.StatusNotFound)
		return
	}
	writeJSON(w, h.layers())
}

func (h *Handler) randomizeHandler(w http.ResponseWriter, r *http.Request) {
	h.s.Randomize()
	writeJSON(w, h.layers())
}

func (h *Handler) gridHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.grid())
}

// optionalInt parses form value key, reporting false if it is absent.
func optionalInt(r *http.Request, key string) (int, bool, error) {
	v := r.FormValue(key)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, errors.Errorf("%s not a number", key)
	}
	return n, true, nil
}

func (h *Handler) setGridHandler(w http.ResponseWriter, r *http.Request) {
	var p [4]int
	var set [4]bool
	for i, key := range []string{"tile_width", "tile_height", "columns", "rows"} {
		var err error
		if p[i], set[i], err = optionalInt(r, key); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if set[0] || set[1] {
		cur := h.s.Grid()
		tw, th := cur.TileWidth, cur.TileHeight
		if set[0] {
			tw = p[0]
		}
		if set[1] {
			th = p[1]
		}
		h.s.SetTileSize(tw, th)
	}
	if set[2] || set[3] {
		h.s.SetQuantity(p[2], p[3])
	}
	if o := r.FormValue("order"); o != "" {
		var order grid.Order
		if err := order.UnmarshalText([]byte(o)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.s.SetOrder(order)
	}
	writeJSON(w, h.grid())
}

func (h *Handler) stateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stateView{
		Settings: h.s.Settings(),
		Playback: h.s.Playback(),
		Offset:   h.s.Offset().String(),
	})
}

func (h *Handler) playbackHandler(w http.ResponseWriter, r *http.Request) {
	fps, err := strconv.Atoi(r.FormValue("fps"))
	if err != nil {
		http.Error(w, "fps not a number", http.StatusBadRequest)
		return
	}
	h.s.SetFPS(fps)
	h.stateHandler(w, r)
}

func (h *Handler) nameHandler(w http.ResponseWriter, r *http.Request) {
	h.s.SetName(r.FormValue("name"))
	h.stateHandler(w, r)
}

func (h *Handler) scaleHandler(w http.ResponseWriter, r *http.Request) {
	scale, err := strconv.Atoi(r.FormValue("scale"))
	if err != nil || scale < 1 {
		http.Error(w, "scale not a positive number", http.StatusBadRequest)
		return
	}
	if scale > session.MaxScale {
		http.Error(w, fmt.Sprintf("scale above %d", session.MaxScale), http.StatusBadRequest)
		return
	}
	h.s.SetScale(scale)
	h.stateHandler(w, r)
}

func (h *Handler) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.s.Categories())
}

// etag identifies output rendered from the session's current state.
func (h *Handler) etag(kind string) string {
	generation := 1 // bump if the way we generate it changes
	return fmt.Sprintf(`W/"%s:%d:%d"`, kind, generation, h.s.Settings().Generation)
}

// notModified answers a conditional request whose tag still matches.
func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	frame := h.s.Playback().Frame
	if v, ok := mux.Vars(r)["n"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "n not a number", http.StatusBadRequest)
			return
		}
		frame = n
	}

	etag := h.etag(fmt.Sprintf("frame:%d", frame))
	if notModified(w, r, etag) {
		return
	}

	img, err := h.s.PreviewFrame(r.Context(), frame)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if img.Bounds().Empty() {
		http.Error(w, "no frame to render", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

func (h *Handler) exportHandler(w http.ResponseWriter, r *http.Request) {
	etag := h.etag(fmt.Sprintf("export:%x", h.s.Filename()))
	if notModified(w, r, etag) {
		return
	}

	c, filename, err := h.s.Export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if c.Image.Bounds().Empty() {
		http.Error(w, "nothing to export", http.StatusNotFound)
		return
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, c.Image); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) exportDataURLHandler(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.s.Export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	u, err := sheet.EncodeDataURL(c.Image)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, u)
}

func (h *Handler) animationHandler(w http.ResponseWriter, r *http.Request) {
	etag := h.etag(fmt.Sprintf("animation:%d", h.s.Settings().FPS))
	if notModified(w, r, etag) {
		return
	}

	g, err := h.s.Animation(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	buf := &bytes.Buffer{}
	if err := gif.EncodeAll(buf, g); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/gif")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) paletteHandler(w http.ResponseWriter, r *http.Request) {
	k := 6
	if v, ok, err := optionalInt(r, "k"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	} else if ok {
		k = v
	}

	c, _, err := h.s.Export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sw := compositor.Palette(c.Image, k)
	if sw == nil {
		sw = []compositor.Swatch{}
	}
	writeJSON(w, sw)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/layers", h.layersHandler).Methods("GET")
	r.HandleFunc("/layers", h.addLayersHandler).Methods("POST")
	r.HandleFunc("/layers", h.clearLayersHandler).Methods("DELETE")
	r.HandleFunc("/layers/{idx:[0-9]+}", h.layerHandler).Methods("GET")
	r.HandleFunc("/layers/{idx:[0-9]+}/sheet", h.layerSheetHandler).Methods("GET")
	r.HandleFunc("/layers/{idx:[0-9]+}/sheet.txt", h.layerSheetDataURLHandler).Methods("GET")
	r.HandleFunc("/layers/{idx:[0-9]+}/move", h.moveLayerHandler).Methods("POST")
	r.HandleFunc("/layers/{idx:[0-9]+}/visible", h.visibleLayerHandler).Methods("POST")
	r.HandleFunc("/layers/{idx:[0-9]+}", h.removeLayerHandler).Methods("DELETE")
	r.HandleFunc("/randomize", h.randomizeHandler).Methods("POST")

	r.HandleFunc("/grid", h.gridHandler).Methods("GET")
	r.HandleFunc("/grid", h.setGridHandler).Methods("POST")
	r.HandleFunc("/state", h.stateHandler).Methods("GET")
	r.HandleFunc("/playback", h.playbackHandler).Methods("POST")
	r.HandleFunc("/name", h.nameHandler).Methods("POST")
	r.HandleFunc("/scale", h.scaleHandler).Methods("POST")
	r.HandleFunc("/categories", h.categoriesHandler).Methods("GET")

	r.HandleFunc("/frame.png", h.frameHandler).Methods("GET")
	r.HandleFunc("/frame/{n:[0-9]+}.png", h.frameHandler).Methods("GET")
	r.HandleFunc("/export", h.exportHandler).Methods("GET")
	r.HandleFunc("/export.txt", h.exportDataURLHandler).Methods("GET")
	r.HandleFunc("/animation.gif", h.animationHandler).Methods("GET")
	r.HandleFunc("/palette", h.paletteHandler).Methods("GET")
}
