// Package requestctx carries the in-flight request description that
// request-scoped naming filters read.
//
// HTTP servers install Middleware (or MuxMiddleware on a gorilla/mux router);
// it stores the HTTP verb and the matched resource in the request context.
// Code running inside the handler then sees the request through a Provider:
//
//	r := mux.NewRouter()
//	r.Use(requestctx.MuxMiddleware())
//	r.HandleFunc("/invoices/{id}", getInvoice).Methods(http.MethodGet).Name("GetInvoice")
//
//	info, ok := requestctx.FromContext(ctx)
//	// info.Method == "GET", info.Resource == "/invoices/{id}", info.Operation == "GetInvoice"
//
// Outside a request FromContext reports false.
package requestctx
