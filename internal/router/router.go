// Package router содержит таблицу маршрутов (путь, метод) → обработчик.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Коды ответов, используемые обработчиками.
const (
	StatusOK            = http.StatusOK
	StatusCreated       = http.StatusCreated
	StatusBadRequest    = http.StatusBadRequest
	StatusUnauthorized  = http.StatusForbidden // клиенты API ожидают 403
	StatusNotFound      = http.StatusNotFound
	StatusInternalError = http.StatusInternalServerError
)

const maxRequestBodyLength = 1 << 20

// Request описывает нормализованный запрос, передаваемый обработчику.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Decode разбирает JSON-тело запроса в v. Пустое или некорректное тело
// оставляет v нулевым: отсутствующие поля отклоняет валидация обработчика.
func (r *Request) Decode(v any) {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return
	}
	_ = json.Unmarshal(r.Body, v)
}

// Response содержит код ответа и тело, сериализуемое в JSON.
type Response struct {
	Status int
	Body   any
}

// HandlerFunc обрабатывает нормализованный запрос.
type HandlerFunc func(ctx context.Context, req *Request) Response

// Router хранит не более одного обработчика на пару (путь, метод).
// Регистрация выполняется при старте, до начала обслуживания запросов.
type Router struct {
	routes map[string]map[string]HandlerFunc
}

// New создаёт пустую таблицу маршрутов.
func New() *Router {
	return &Router{routes: make(map[string]map[string]HandlerFunc)}
}

// TrimPath убирает ведущие и завершающие "/" из пути.
func TrimPath(p string) string {
	return strings.Trim(p, "/")
}

// Register связывает пару (путь, метод) с обработчиком. Повторная регистрация перезаписывает предыдущую.
func (rt *Router) Register(path, method string, h HandlerFunc) {
	path = TrimPath(path)
	method = strings.ToLower(method)

	methods, ok := rt.routes[path]
	if !ok {
		methods = make(map[string]HandlerFunc)
		rt.routes[path] = methods
	}
	methods[method] = h
}

// Dispatch вызывает обработчик пары (путь, метод) запроса.
// Для незарегистрированной пары возвращает 404 без тела.
func (rt *Router) Dispatch(ctx context.Context, req *Request) Response {
	h, ok := rt.routes[TrimPath(req.Path)][strings.ToLower(req.Method)]
	if !ok {
		return Response{Status: StatusNotFound}
	}
	return h(ctx, req)
}

// ServeHTTP переводит HTTP-запрос в Request, выполняет Dispatch и пишет ответ в JSON.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyLength))
	if err != nil {
		writeJSON(w, StatusBadRequest, nil)
		return
	}

	resp := rt.Dispatch(r.Context(), &Request{
		Method: strings.ToLower(r.Method),
		Path:   TrimPath(r.URL.Path),
		Query:  r.URL.Query(),
		Header: r.Header,
		Body:   body,
	})

	writeJSON(w, resp.Status, resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		body = struct{}{}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		status = StatusInternalError
		payload = []byte(`{}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
