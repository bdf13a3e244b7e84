package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/ONSdigital/go-ns/log"
	jsoniter "github.com/json-iterator/go"
	geojson "github.com/paulmach/go.geojson"

	"github.com/ONSdigital/dp-topojson-client/analyser"
	"github.com/ONSdigital/dp-topojson-client/health"
	"github.com/ONSdigital/dp-topojson-client/models"
	"github.com/ONSdigital/dp-topojson-client/preview"
	"github.com/ONSdigital/dp-topojson-client/spatial"
	"github.com/ONSdigital/dp-topojson-client/topojson"
)

// Error types
var (
	internalError    = "Failed to process the request due to an internal error"
	missingObjectKey = "Bad request - Missing object key"
	badQueryBBox     = "Bad request - bbox must hold 4 numbers"
)

// Content types
var (
	contentJSON = "application/json"
	contentSVG  = "image/svg+xml"
)

var previewSize = 400.0

// UsePreviewSize sets the viewport size used by the preview endpoint.
func UsePreviewSize(size float64) {
	if size > 0 {
		previewSize = size
	}
}

func (api *DecoderAPI) decodeFeature(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "feature")

	request, ok := api.decodeRequest(w, r, true)
	if !ok {
		return
	}

	fc, err := request.Topojson.FeatureCollection(request.Key)
	if err != nil {
		log.Error(err, log.Data{"key": request.Key})
		setErrorCode(w, err)
		return
	}

	writeJSON(w, fc)
}

func (api *DecoderAPI) mergeObjects(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "merge")

	request, ok := api.decodeRequest(w, r, true)
	if !ok {
		return
	}

	merged, err := request.Topojson.MergeKey(request.Key)
	if err != nil {
		log.Error(err, log.Data{"key": request.Key})
		setErrorCode(w, err)
		return
	}

	writeJSON(w, geojson.NewFeature(merged))
}

func (api *DecoderAPI) meshObjects(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "mesh")

	request, ok := api.decodeRequest(w, r, false)
	if !ok {
		return
	}

	var mesh *geojson.Geometry
	var err error
	if len(request.Key) == 0 {
		mesh = request.Topojson.Mesh()
	} else {
		mesh, err = request.Topojson.MeshKey(request.Key, meshFilter(request.Filter))
	}
	if err != nil {
		log.Error(err, log.Data{"key": request.Key, "filter": request.Filter})
		setErrorCode(w, err)
		return
	}

	writeJSON(w, geojson.NewFeature(mesh))
}

// meshFilter maps a named filter to its pair predicate.
func meshFilter(name string) func(a, b *topojson.Geometry) bool {
	switch name {
	case models.MeshFilterInterior:
		return func(a, b *topojson.Geometry) bool { return a != b }
	case models.MeshFilterExterior:
		return func(a, b *topojson.Geometry) bool { return a == b }
	}
	return nil
}

func (api *DecoderAPI) computeNeighbors(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "neighbors")

	request, ok := api.decodeRequest(w, r, true)
	if !ok {
		return
	}

	o, err := request.Topojson.Object(request.Key)
	if err != nil {
		log.Error(err, log.Data{"key": request.Key})
		setErrorCode(w, err)
		return
	}
	if o.Type != geojson.GeometryCollection {
		log.Error(topojson.ErrTypeMismatch, log.Data{"key": request.Key, "type": o.Type})
		setErrorCode(w, topojson.ErrTypeMismatch)
		return
	}

	writeJSON(w, topojson.Neighbors(o.Geometries))
}

func (api *DecoderAPI) quantizeTopology(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "quantize")

	request, err := models.CreateQuantizeRequest(r.Body)
	if err != nil {
		log.Error(err, nil)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err = request.ValidateQuantizeRequest(); err != nil {
		log.Error(err, nil)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quantized, err := request.Topojson.Quantize(request.N)
	if err != nil {
		log.Error(err, log.Data{"n": request.N})
		setErrorCode(w, err)
		return
	}

	writeJSON(w, quantized)
}

func (api *DecoderAPI) computeBBox(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "bbox")

	request, ok := api.decodeRequest(w, r, false)
	if !ok {
		return
	}

	writeJSON(w, request.Topojson.BBox())
}

func (api *DecoderAPI) queryFeatures(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "query")

	request, ok := api.decodeRequest(w, r, true)
	if !ok {
		return
	}
	if len(request.BBox) != 4 {
		http.Error(w, badQueryBBox, http.StatusBadRequest)
		return
	}

	fc, err := request.Topojson.FeatureCollection(request.Key)
	if err != nil {
		log.Error(err, log.Data{"key": request.Key})
		setErrorCode(w, err)
		return
	}

	index, err := spatial.New(fc)
	if err != nil {
		log.Error(err, nil)
		setErrorCode(w, err)
		return
	}

	ids := index.Search(request.BBox[0], request.BBox[1], request.BBox[2], request.BBox[3])
	writeJSON(w, ids)
}

func (api *DecoderAPI) analyseData(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "analyse")

	request, err := models.CreateAnalyseRequest(r.Body)
	if err != nil {
		log.Error(err, nil)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err = request.ValidateAnalyseRequest(); err != nil {
		log.Error(err, nil)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := analyser.AnalyseData(request)
	if err != nil {
		log.Error(err, nil)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, response)
}

func (api *DecoderAPI) previewFeatures(w http.ResponseWriter, r *http.Request) {
	defer health.RecordTime(time.Now(), "preview")

	request, ok := api.decodeRequest(w, r, true)
	if !ok {
		return
	}

	fc, err := request.Topojson.FeatureCollection(request.Key)
	if err != nil {
		log.Error(err, log.Data{"key": request.Key})
		setErrorCode(w, err)
		return
	}

	setContentType(w, contentSVG)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(preview.Render(fc, previewSize)); err != nil {
		log.Error(err, nil)
	}
}

// decodeRequest parses and validates the shared request body, writing the
// error response itself when parsing fails.
func (api *DecoderAPI) decodeRequest(w http.ResponseWriter, r *http.Request, requireKey bool) (*models.DecodeRequest, bool) {
	request, err := models.CreateDecodeRequest(r.Body)
	if err != nil {
		log.Error(err, nil)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	if err = request.ValidateDecodeRequest(); err != nil {
		log.Error(err, nil)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	if requireKey && len(request.Key) == 0 {
		log.Error(errors.New(missingObjectKey), nil)
		http.Error(w, missingObjectKey, http.StatusBadRequest)
		return nil, false
	}

	return request, true
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	bytes, err := jsoniter.Marshal(value)
	if err != nil {
		log.Error(err, nil)
		setErrorCode(w, err)
		return
	}

	setContentType(w, contentJSON)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(bytes); err != nil {
		log.Error(err, nil)
	}
}

func setContentType(w http.ResponseWriter, contentType string) {
	w.Header().Set("Content-Type", contentType)
}

func setErrorCode(w http.ResponseWriter, err error) {
	log.Debug("error is", log.Data{"error": err})
	switch {
	case errors.Is(err, topojson.ErrKeyNotFound),
		errors.Is(err, topojson.ErrTypeMismatch),
		errors.Is(err, topojson.ErrAlreadyQuantized),
		errors.Is(err, topojson.ErrBadQuantizeN):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, internalError, http.StatusInternalServerError)
	}
}
