package httpx

import "net/http"

// VersionInfo is the static descriptor served at GET /version.
type VersionInfo struct {
	Version string `json:"version" example:"1.0.0"`
	Name    string `json:"name"    example:"Practice Task API"`
	Status  string `json:"status"  example:"stable"`
} // @name VersionInfo

// VersionHandler serves info unchanged on every call.
//
//	@Summary	API version
//	@Tags		meta
//	@Produce	json
//	@Success	200	{object}	VersionInfo
//	@Router		/version [get]
func VersionHandler(info VersionInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, info)
	}
}

type indexResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// IndexHandler serves the liveness message at GET / along with example links.
func IndexHandler(endpoints ...string) http.HandlerFunc {
	resp := indexResponse{Message: "API is running", Endpoints: endpoints}
	if resp.Endpoints == nil {
		resp.Endpoints = []string{}
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, resp)
	}
}
