package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every domain handler so pkg/app can mount its
// routes without knowing the domain.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
