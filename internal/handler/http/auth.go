package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-pref-sync/internal/app"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/utils"
)

type openSessionRequest struct {
	Identity string `json:"identity"`
}

type openSessionResponse struct {
	Token string `json:"token"`
}

// openSession issues a signed session token for the requested identity.
//
// This is the reference sync server: it authenticates nobody and simply mints
// a token for whatever identity the client presents. A production deployment
// puts a real identity provider in front of this endpoint.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var request openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSONProvided)
		http.Error(w, app.MsgInvalidJSONProvided, http.StatusBadRequest)
		return
	}

	identity := strings.TrimSpace(request.Identity)
	if identity == "" {
		log.Error().Msg("empty identity in session request")
		http.Error(w, app.MsgIdentityIsRequired, http.StatusBadRequest)
		return
	}

	token, err := utils.GenerateJWTToken(h.appCfg.TokenIssuer, identity, h.appCfg.TokenDuration, h.appCfg.TokenSignKey)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, app.MsgInternalServerError, http.StatusInternalServerError)
		return
	}

	log.Debug().Str("identity", identity).Msg("session opened")

	utils.WriteJSON(w, openSessionResponse{Token: token.SignedString}, http.StatusOK)
}
