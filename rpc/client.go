package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dogeorg/explorer/spec"
)

// Per-call timeouts: txoutset scans the whole UTXO set on the node.
const (
	queryTimeout    = 10 * time.Second
	txOutSetTimeout = 30 * time.Second
)

// Client is a Core-style JSON-RPC client over HTTP POST.
type Client struct {
	url    string
	user   string
	pass   string
	client *http.Client
}

var _ spec.DataSource = &Client{} // interface assertion

// NewClient creates a JSON-RPC client for a Core-family node.
func NewClient(host string, port int, user string, pass string) *Client {
	return &Client{
		url:    fmt.Sprintf("http://%v:%v/", host, port),
		user:   user,
		pass:   pass,
		client: &http.Client{Timeout: txOutSetTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %v: %v", e.Code, e.Message)
}

// call performs one JSON-RPC request and decodes the result into `out`.
func (c *Client) call(ctx context.Context, timeout time.Duration, method string, params []any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	body, err := json.Marshal(rpcRequest{JSONRPC: "1.0", ID: "explorer", Method: method, Params: params})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.user, c.pass)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%v: %w", method, err)
	}
	defer resp.Body.Close()
	var res rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		// the node sends errors as JSON even on non-200 statuses
		return fmt.Errorf("%v: status %v: decoding response: %w", method, resp.Status, err)
	}
	if res.Error != nil {
		return fmt.Errorf("%v: %w", method, res.Error)
	}
	if err := json.Unmarshal(res.Result, out); err != nil {
		return fmt.Errorf("%v: decoding result: %w", method, err)
	}
	return nil
}

// GetTransaction fetches a transaction in verbose (decoded JSON) form.
func (c *Client) GetTransaction(ctx context.Context, txid string) (*spec.RawTx, error) {
	tx := &spec.RawTx{}
	if err := c.call(ctx, queryTimeout, "getrawtransaction", []any{txid, 1}, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *Client) GetBlockCount(ctx context.Context) (int64, error) {
	var height int64
	if err := c.call(ctx, queryTimeout, "getblockcount", []any{}, &height); err != nil {
		return 0, err
	}
	return height, nil
}

func (c *Client) GetBlockHash(ctx context.Context, height int64) (string, error) {
	var hash string
	if err := c.call(ctx, queryTimeout, "getblockhash", []any{height}, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (c *Client) GetBlock(ctx context.Context, hash string) (*spec.RawBlock, error) {
	block := &spec.RawBlock{}
	if err := c.call(ctx, queryTimeout, "getblock", []any{hash}, block); err != nil {
		return nil, err
	}
	return block, nil
}

// GetSupply queries the `getsupply` call some forks expose.
func (c *Client) GetSupply(ctx context.Context) (json.Number, error) {
	var supply json.Number
	if err := c.call(ctx, queryTimeout, "getsupply", []any{}, &supply); err != nil {
		return "", err
	}
	return supply, nil
}

func (c *Client) GetInfo(ctx context.Context) (*spec.NodeInfo, error) {
	info := &spec.NodeInfo{}
	if err := c.call(ctx, queryTimeout, "getinfo", []any{}, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) GetTxOutSetInfo(ctx context.Context) (*spec.TxOutSetInfo, error) {
	set := &spec.TxOutSetInfo{}
	if err := c.call(ctx, txOutSetTimeout, "gettxoutsetinfo", []any{}, set); err != nil {
		return nil, err
	}
	return set, nil
}
