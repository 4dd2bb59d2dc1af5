package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/pkg/jwt"
)

type contextKey string

const (
	contextKeyID     = contextKey("id")
	contextKeyMember = contextKey("member")
	contextKeyParent = contextKey("parent")
)

var (
	errCantRetrieveID     = errors.New("can't retrieve id")
	errCantRetrieveMember = errors.New("can't retrieve member from context")
)

func (a *Api) deviceAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Device-Token")
		if token == "" {
			a.unauthorizedResponse(w, r, errors.New("no device token provided"))
			return
		}

		memberID, err := a.deviceTokens.Get(r.Context(), token)
		if err != nil {
			if !errors.Is(err, model.ErrNoRecord) {
				a.serverErrorResponse(w, r, err)
				return
			}

			// Кэш мог протухнуть, проверяем саму таблицу устройств.
			device, err := a.families.GetDevice(r.Context(), a.db, token)
			if err != nil {
				switch {
				case errors.Is(err, model.ErrNoRecord):
					a.unauthorizedResponse(w, r, errors.New("unknown device token"))
				default:
					a.serverErrorResponse(w, r, err)
				}
				return
			}
			memberID = device.MemberID

			if err := a.deviceTokens.Add(r.Context(), token, memberID); err != nil {
				a.logger.Warnw("failed to cache device token", "error", err)
			}
		}

		idContext := context.WithValue(r.Context(), contextKeyID, memberID)
		next.ServeHTTP(w, r.WithContext(idContext))
	})
}

func (a *Api) memberCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := r.Context().Value(contextKeyID).(int64)
		if !ok {
			a.serverErrorResponse(w, r, errCantRetrieveID)
			return
		}

		member, err := a.families.GetMemberByID(r.Context(), a.db, id)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoRecord):
				a.forbiddenResponse(w, r, "member does not exist")
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		memberCtx := context.WithValue(r.Context(), contextKeyMember, member)
		next.ServeHTTP(w, r.WithContext(memberCtx))
	})
}

func (a *Api) parentAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member, ok := r.Context().Value(contextKeyMember).(*model.Member)
		if !ok {
			a.serverErrorResponse(w, r, errCantRetrieveMember)
			return
		}

		token := r.Header.Get("Authorization")
		if token == "" {
			a.unauthorizedResponse(w, r, errors.New("no parent token provided"))
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		parentID, err := a.jwts.GetIDFromToken(token)
		if err != nil {
			invalidTokenErr := &jwt.InvalidTokenError{}
			switch {
			case errors.As(err, &invalidTokenErr):
				a.unauthorizedResponse(w, r, invalidTokenErr)
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		parent, err := a.families.GetMemberByID(r.Context(), a.db, parentID)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoRecord):
				a.forbiddenResponse(w, r, "parent does not exist")
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		if !parent.IsParent() || parent.FamilyID != member.FamilyID {
			a.forbiddenResponse(w, r, "parent access required")
			return
		}

		parentCtx := context.WithValue(r.Context(), contextKeyParent, parent)
		next.ServeHTTP(w, r.WithContext(parentCtx))
	})
}
