package web

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dogeorg/doge"
	"github.com/dogeorg/doge/koinu"
	"github.com/dogeorg/explorer/spec"
	"github.com/dogeorg/explorer/supply"
	"github.com/dogeorg/governor"
)

const richListMax = 1000 // cap on one rich-list page

func New(bind string, store spec.Store, calc *supply.Calculator, supplyMode supply.Mode, corsOrigin string) governor.Service {
	mux := http.NewServeMux()
	a := &WebAPI{
		_store:     store,
		calc:       calc,
		supplyMode: supplyMode,
		corsOrigin: corsOrigin,
		srv: http.Server{
			Addr:    bind,
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", a.healthCheck)
	mux.HandleFunc("/address", a.getAddress)
	mux.HandleFunc("/richlist", a.getRichList)
	mux.HandleFunc("/supply", a.getSupply)
	mux.HandleFunc("/height", a.getHeight)

	return a
}

type WebAPI struct {
	governor.ServiceCtx
	_store     spec.Store
	store      spec.Store
	calc       *supply.Calculator
	supplyMode supply.Mode
	corsOrigin string
	srv        http.Server
}

// called on any Goroutine
func (a *WebAPI) Stop() {
	// new goroutine because Shutdown() blocks
	go func() {
		// cannot use ServiceCtx here because it's already cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		a.srv.Shutdown(ctx) // blocking call
		cancel()
	}()
}

// goroutine
func (a *WebAPI) Run() {
	a.store = a._store.WithCtx(a.Context) // Service Context is first available here
	log.Printf("HTTP server listening on: %v\n", a.srv.Addr)
	if err := a.srv.ListenAndServe(); err != http.ErrServerClosed { // blocking call
		log.Printf("HTTP server: %v\n", err)
	}
}

func (a *WebAPI) healthCheck(w http.ResponseWriter, r *http.Request) {
	_, _, err := a.store.GetResumePoint()
	if err != nil {
		sendError(w, 500, "error", err.Error(), "GET", a.corsOrigin)
	} else {
		sendJson(w, map[string]interface{}{"ok": true}, "GET", a.corsOrigin)
	}
}

// AddressResponse renders one address's totals as 8-decimal strings.
type AddressResponse struct {
	Address  string      `json:"address"`
	Received koinu.Koinu `json:"received"`
	Sent     koinu.Koinu `json:"sent"`
	Balance  koinu.Koinu `json:"balance"`
}

func addressResponse(b spec.Balance) AddressResponse {
	return AddressResponse{
		Address:  b.Address,
		Received: koinu.Koinu(b.Received),
		Sent:     koinu.Koinu(b.Sent),
		Balance:  koinu.Koinu(b.Balance),
	}
}

func (a *WebAPI) getAddress(w http.ResponseWriter, r *http.Request) {
	options := "GET, OPTIONS"
	switch r.Method {
	case http.MethodGet:
		address := r.URL.Query().Get("address")
		if address == "" {
			sendError(w, 400, "bad-request", "missing 'address' in the URL", options, a.corsOrigin)
			return
		}
		if !validAddress(address) {
			sendError(w, 400, "bad-request", "invalid address", options, a.corsOrigin)
			return
		}
		bal, err := a.store.FindBalance(address)
		if err != nil {
			sendError(w, 500, "error", err.Error(), options, a.corsOrigin)
		} else {
			sendJson(w, addressResponse(bal), options, a.corsOrigin)
		}
	case http.MethodOptions:
		sendOptions(w, r, options, a.corsOrigin)
	}
}

type RichListResponse struct {
	RichList []AddressResponse `json:"richlist"`
}

func (a *WebAPI) getRichList(w http.ResponseWriter, r *http.Request) {
	options := "GET, OPTIONS"
	switch r.Method {
	case http.MethodGet:
		count := 100
		if c := r.URL.Query().Get("count"); c != "" {
			n, err := strconv.Atoi(c)
			if err != nil || n < 1 {
				sendError(w, 400, "bad-request", "invalid 'count' in the URL", options, a.corsOrigin)
				return
			}
			count = n
		}
		if count > richListMax {
			count = richListMax
		}
		list, err := a.store.RichList(count)
		if err != nil {
			sendError(w, 500, "error", err.Error(), options, a.corsOrigin)
			return
		}
		rich := []AddressResponse{}
		for _, b := range list {
			rich = append(rich, addressResponse(b))
		}
		sendJson(w, RichListResponse{RichList: rich}, options, a.corsOrigin)
	case http.MethodOptions:
		sendOptions(w, r, options, a.corsOrigin)
	}
}

func (a *WebAPI) getSupply(w http.ResponseWriter, r *http.Request) {
	options := "GET, OPTIONS"
	switch r.Method {
	case http.MethodGet:
		mode := a.supplyMode
		if m := r.URL.Query().Get("mode"); m != "" {
			mode = supply.ParseMode(m)
		}
		// always renders a number; failures degrade to zero inside
		total := a.calc.Supply(r.Context(), mode)
		sendJson(w, map[string]interface{}{"supply": koinu.Koinu(total)}, options, a.corsOrigin)
	case http.MethodOptions:
		sendOptions(w, r, options, a.corsOrigin)
	}
}

func (a *WebAPI) getHeight(w http.ResponseWriter, r *http.Request) {
	options := "GET, OPTIONS"
	switch r.Method {
	case http.MethodGet:
		height, _, err := a.store.GetResumePoint()
		if err != nil {
			sendError(w, 500, "error", err.Error(), options, a.corsOrigin)
		} else {
			sendJson(w, map[string]interface{}{"height": height}, options, a.corsOrigin)
		}
	case http.MethodOptions:
		sendOptions(w, r, options, a.corsOrigin)
	}
}

// validAddress accepts base58check addresses and the synthetic
// coinbase address used by the balance store.
func validAddress(address string) bool {
	if address == spec.CoinbaseAddress {
		return true
	}
	payload, err := doge.Base58DecodeCheck(address)
	if err != nil {
		return false
	}
	return len(payload) == 21
}
