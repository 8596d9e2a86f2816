package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/playhub-lab/backend/pkg/errorx"
	"github.com/playhub-lab/backend/pkg/xcontext"
)

// UserIDHeader carries the caller identity forwarded by the authenticating
// gateway in front of this service.
const UserIDHeader = "X-User-Id"

type Endpoint[Request, Response any] struct {
	Method string
	Path   string
	Handle func(context.Context, *Request) (*Response, error)
}

// Register mounts the endpoint on mux. The base context supplies the
// database, configurations, logger and clock to every request.
func (e *Endpoint[Request, Response]) Register(mux *http.ServeMux, base context.Context) {
	mux.HandleFunc(e.Path, func(w http.ResponseWriter, r *http.Request) {
		if e.Method != "" && r.Method != e.Method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := base
		if userID := r.Header.Get(UserIDHeader); userID != "" {
			ctx = xcontext.WithRequestUserID(ctx, userID)
		}

		var req Request
		if err := e.readRequest(r, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot read request of %s: %v", e.Path, err)
			writeJson(ctx, w, newErrorResponse(errorx.New(errorx.BadRequest, "Cannot read the request")))
			return
		}

		resp, err := e.Handle(ctx, &req)
		if err != nil {
			writeJson(ctx, w, newErrorResponse(err))
			return
		}

		writeJson(ctx, w, newResponse(resp))
	})
}

func (e *Endpoint[Request, Response]) readRequest(r *http.Request, req *Request) error {
	switch e.Method {
	case http.MethodGet, http.MethodDelete:
		v := reflect.ValueOf(req).Elem()
		for i := 0; i < v.NumField(); i++ {
			name, _, _ := strings.Cut(v.Type().Field(i).Tag.Get("json"), ",")
			queryVal := r.URL.Query().Get(name)
			if queryVal == "" {
				continue
			}

			switch v.Field(i).Kind() {
			case reflect.String:
				v.Field(i).SetString(queryVal)

			case reflect.Int, reflect.Int64:
				val, err := strconv.ParseInt(queryVal, 10, 64)
				if err != nil {
					return err
				}

				v.Field(i).SetInt(val)
			}
		}

		return nil

	default:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}

		if len(b) == 0 {
			return nil
		}

		return json.Unmarshal(b, req)
	}
}
