package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/core/service"
)

// CodecName is the content subtype clients pass with grpc.CallContentSubtype.
const CodecName = "json"

const storefrontServiceName = "techmart.v1.Storefront"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

type CartRequest struct {
	SessionID string `json:"session_id"`
}

type AddToCartRPCRequest struct {
	SessionID string          `json:"session_id"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type CartItemRequest struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	Quantity  string `json:"quantity,omitempty"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}

type SearchRPCRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type SuggestRequest struct {
	Query string `json:"query"`
}

type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// StorefrontServer is the RPC surface of the storefront.
type StorefrontServer interface {
	GetCart(context.Context, *CartRequest) (*CartView, error)
	AddToCart(context.Context, *AddToCartRPCRequest) (*CartCountResponse, error)
	RemoveFromCart(context.Context, *CartItemRequest) (*CartCountResponse, error)
	UpdateCartItem(context.Context, *CartItemRequest) (*SummaryView, error)
	Search(context.Context, *SearchRPCRequest) (*service.SearchResult, error)
	Suggest(context.Context, *SuggestRequest) (*SuggestResponse, error)
}

type GRPCHandler struct {
	store *service.Storefront
}

func NewGRPCHandler(store *service.Storefront) *GRPCHandler {
	return &GRPCHandler{store: store}
}

// session resolves the page session of a call; every call must name one.
func (h *GRPCHandler) session(id string) (*service.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	return h.store.Sessions.Open(id), nil
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *CartRequest) (*CartView, error) {
	session, err := h.session(req.SessionID)
	if err != nil {
		return nil, err
	}
	items, err := h.store.Cart.Cart(ctx, session.ID)
	if err != nil {
		return nil, rpcError(err)
	}
	view := cartView(items)
	return &view, nil
}

func (h *GRPCHandler) AddToCart(ctx context.Context, req *AddToCartRPCRequest) (*CartCountResponse, error) {
	session, err := h.session(req.SessionID)
	if err != nil {
		return nil, err
	}
	count, err := h.store.Cart.AddToCart(ctx, session.ID, domain.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return nil, rpcError(err)
	}
	return &CartCountResponse{Count: count}, nil
}

func (h *GRPCHandler) RemoveFromCart(ctx context.Context, req *CartItemRequest) (*CartCountResponse, error) {
	session, err := h.session(req.SessionID)
	if err != nil {
		return nil, err
	}
	count, err := h.store.Cart.RemoveFromCart(ctx, session.ID, req.ItemID)
	if err != nil {
		return nil, rpcError(err)
	}
	return &CartCountResponse{Count: count}, nil
}

func (h *GRPCHandler) UpdateCartItem(ctx context.Context, req *CartItemRequest) (*SummaryView, error) {
	session, err := h.session(req.SessionID)
	if err != nil {
		return nil, err
	}
	summary, err := h.store.Cart.UpdateCartItem(ctx, session.ID, req.ItemID, req.Quantity)
	if err != nil {
		return nil, rpcError(err)
	}
	view := summaryView(summary)
	return &view, nil
}

func (h *GRPCHandler) Search(ctx context.Context, req *SearchRPCRequest) (*service.SearchResult, error) {
	session, err := h.session(req.SessionID)
	if err != nil {
		return nil, err
	}
	result, err := h.store.Search.Submit(session, req.Query)
	if err != nil {
		return nil, rpcError(err)
	}
	return &result, nil
}

func (h *GRPCHandler) Suggest(ctx context.Context, req *SuggestRequest) (*SuggestResponse, error) {
	return &SuggestResponse{Suggestions: h.store.Search.Suggest(req.Query)}, nil
}

func rpcError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidItem), errors.Is(err, service.ErrInvalidQuantity):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrQueryTooShort):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrCorruptCart):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// RegisterStorefrontServer attaches srv to s under the techmart.v1.Storefront name.
func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&StorefrontServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, call func(StorefrontServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StorefrontServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + storefrontServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StorefrontServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var StorefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: storefrontServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetCart", StorefrontServer.GetCart),
		unaryHandler("AddToCart", StorefrontServer.AddToCart),
		unaryHandler("RemoveFromCart", StorefrontServer.RemoveFromCart),
		unaryHandler("UpdateCartItem", StorefrontServer.UpdateCartItem),
		unaryHandler("Search", StorefrontServer.Search),
		unaryHandler("Suggest", StorefrontServer.Suggest),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "techmart/v1/storefront.proto",
}

// StorefrontClient calls the service over a connection using the JSON codec.
type StorefrontClient struct {
	cc grpc.ClientConnInterface
}

func NewStorefrontClient(cc grpc.ClientConnInterface) *StorefrontClient {
	return &StorefrontClient{cc: cc}
}

func (c *StorefrontClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+storefrontServiceName+"/"+method, in, out, opts...)
}

func (c *StorefrontClient) GetCart(ctx context.Context, in *CartRequest, opts ...grpc.CallOption) (*CartView, error) {
	out := new(CartView)
	if err := c.invoke(ctx, "GetCart", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) AddToCart(ctx context.Context, in *AddToCartRPCRequest, opts ...grpc.CallOption) (*CartCountResponse, error) {
	out := new(CartCountResponse)
	if err := c.invoke(ctx, "AddToCart", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) RemoveFromCart(ctx context.Context, in *CartItemRequest, opts ...grpc.CallOption) (*CartCountResponse, error) {
	out := new(CartCountResponse)
	if err := c.invoke(ctx, "RemoveFromCart", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) UpdateCartItem(ctx context.Context, in *CartItemRequest, opts ...grpc.CallOption) (*SummaryView, error) {
	out := new(SummaryView)
	if err := c.invoke(ctx, "UpdateCartItem", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) Search(ctx context.Context, in *SearchRPCRequest, opts ...grpc.CallOption) (*service.SearchResult, error) {
	out := new(service.SearchResult)
	if err := c.invoke(ctx, "Search", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) Suggest(ctx context.Context, in *SuggestRequest, opts ...grpc.CallOption) (*SuggestResponse, error) {
	out := new(SuggestResponse)
	if err := c.invoke(ctx, "Suggest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
