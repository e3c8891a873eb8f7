package main

import (
	"context"
	"net/http"
	"time"
)

type httpAttrService struct {
	srv     *http.Server
	handler *attrHandler
	done    chan struct{}
}

func (h *httpAttrService) launch(handler *attrHandler, addr string) {
	h.handler = handler
	h.srv = &http.Server{
		Addr:              addr,
		Handler:           newAttrRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		handler.logger.Printf("starting attr http server on %s", addr)
		err := h.srv.ListenAndServe()
		if err != http.ErrServerClosed {
			handler.logger.Printf("attr http server: %v", err)
		}
		handler.logger.Println("Exiting attr service")
	}()
}

func (h *httpAttrService) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	h.srv.Shutdown(ctx)
	<-h.done
}
