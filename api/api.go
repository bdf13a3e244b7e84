package api

import (
	"context"

	"github.com/ONSdigital/dp-topojson-client/health"
	"github.com/ONSdigital/go-ns/log"
	"github.com/ONSdigital/go-ns/server"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"net/http"
)

var httpServer *server.Server

// DecoderAPI manages decoding topojson topologies into geojson
type DecoderAPI struct {
	router *mux.Router
}

// CreateDecoderAPI manages all the routes configured to the decoder
func CreateDecoderAPI(bindAddr string, allowedOrigins string, errorChan chan error) {
	router := mux.NewRouter()
	routes(router)

	httpServer = server.New(bindAddr, createCORSHandler(allowedOrigins, router))
	// Disable this here to allow main to manage graceful shutdown of the entire app.
	httpServer.HandleOSSignals = false

	go func() {
		log.Debug("Starting topojson decoder...", nil)
		if err := httpServer.ListenAndServe(); err != nil {
			log.ErrorC("Main", err, log.Data{"MethodInError": "httpServer.ListenAndServe()"})
			errorChan <- err
		}
	}()
}

// createCORSHandler wraps the router in a CORS handler that responds to OPTIONS requests and returns the headers necessary to allow CORS-enabled clients to work
func createCORSHandler(allowedOrigins string, router *mux.Router) http.Handler {
	headersOk := handlers.AllowedHeaders([]string{"Accept", "Content-Type", "Access-Control-Allow-Origin", "Access-Control-Allow-Methods", "X-Requested-With"})
	originsOk := handlers.AllowedOrigins([]string{allowedOrigins})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})

	return handlers.CORS(originsOk, headersOk, methodsOk)(router)
}

// routes contain all endpoints for the decoder
func routes(router *mux.Router) *DecoderAPI {
	api := DecoderAPI{router: router}

	router.Path("/healthcheck").Methods("GET").HandlerFunc(health.Healthcheck)

	api.router.HandleFunc("/feature", api.decodeFeature).Methods("POST")
	api.router.HandleFunc("/merge", api.mergeObjects).Methods("POST")
	api.router.HandleFunc("/mesh", api.meshObjects).Methods("POST")
	api.router.HandleFunc("/neighbors", api.computeNeighbors).Methods("POST")
	api.router.HandleFunc("/quantize", api.quantizeTopology).Methods("POST")
	api.router.HandleFunc("/bbox", api.computeBBox).Methods("POST")
	api.router.HandleFunc("/query", api.queryFeatures).Methods("POST")
	api.router.HandleFunc("/analyse", api.analyseData).Methods("POST")
	api.router.HandleFunc("/preview", api.previewFeatures).Methods("POST")
	return &api
}

// Close represents the graceful shutting down of the http server
func Close(ctx context.Context) error {
	if err := httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("graceful shutdown of http server complete", nil)
	return nil
}
