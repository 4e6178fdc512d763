package handlers

import (
	"net/http"

	"agentxrp-backend/pkg/common"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// identity returns the authenticated agent or writes a 401
func identity(w http.ResponseWriter, r *http.Request, errs *pkgerrors.ErrorHandler) (common.Identity, bool) {
	id, ok := common.GetIdentity(r.Context())
	if !ok || id.AgentID == "" {
		errs.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return common.Identity{}, false
	}
	return id, true
}

// unexpectedResult reports a bus result of the wrong type
func unexpectedResult(w http.ResponseWriter, r *http.Request, errs *pkgerrors.ErrorHandler) {
	errs.Handle(w, r, pkgerrors.NewInternalError("unexpected handler result"))
}
