package httpx

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/noah-isme/catalog-api/internal/shared"
)

// SQLSTATE classes surfaced by the store. Constraint violations are
// propagated from the database unmodified and only classified here, at the
// transport edge.
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
)

// RespondError maps a service error onto the response envelope.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *shared.NotFoundError
	if errors.As(err, &nf) {
		writeEnvelope(w, r, http.StatusNotFound, nf.Error(), nil)
		return
	}

	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		writeEnvelope(w, r, http.StatusBadRequest, ve.Error(), ve.Fields)
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateUniqueViolation:
			writeEnvelope(w, r, http.StatusConflict, "duplicate value violates a uniqueness constraint: "+pgErr.ConstraintName, nil)
			return
		case sqlstateForeignKeyViolation:
			writeEnvelope(w, r, http.StatusBadRequest, "referenced row does not exist: "+pgErr.ConstraintName, nil)
			return
		}
	}

	writeEnvelope(w, r, http.StatusInternalServerError, "an unexpected error occurred", nil)
}

// BadRequest writes a 400 envelope for malformed input (bad id, bad body).
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeEnvelope(w, r, http.StatusBadRequest, message, nil)
}
