package providers

import (
	"net/http"

	"bmac/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Delete(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider collects handlers per URL and method. One URL may carry
// several methods (GET and DELETE both live on /cache), so GetRoutes
// emits one dispatching route per URL in registration order.
type RouterProvider struct {
	order []string
	byURL map[string]map[string]http.Handler
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{byURL: make(map[string]map[string]http.Handler)}
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	methods, ok := rp.byURL[url]
	if !ok {
		methods = make(map[string]http.Handler)
		rp.byURL[url] = methods
		rp.order = append(rp.order, url)
	}
	methods[method] = handler
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) Delete(url string, handler http.Handler) {
	rp.add(http.MethodDelete, url, handler)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	routes := make([]structures.Route, 0, len(rp.order))
	for _, url := range rp.order {
		routes = append(routes, structures.Route{
			Url:     url,
			Handler: methodHandler(rp.byURL[url]),
		})
	}
	return routes
}

// methodHandler dispatches by HTTP method and answers 405 for anything
// not registered on the URL.
func methodHandler(byMethod map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := byMethod[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
}
