package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"cookingapp/pkg/models"
)

const serviceName = "cookingapp.v1.Kitchen"

type DiscoverRequest struct {
	UserID     *int64 `json:"user_id,omitempty"`
	City       string `json:"city,omitempty"`
	Ingredient string `json:"ingredient"`
}

type DiscoverResponse struct {
	Results []models.DiscoveryResult `json:"results"`
}

type GetRecipeRequest struct {
	ID int64 `json:"id"`
}

type GetRecipeResponse struct {
	Recipe *models.Recipe `json:"recipe"`
}

type ListMarketsRequest struct {
	City string `json:"city,omitempty"`
}

type ListMarketsResponse struct {
	Markets []models.Market `json:"markets"`
}

// KitchenServer is implemented by Server.
type KitchenServer interface {
	Discover(context.Context, *DiscoverRequest) (*DiscoverResponse, error)
	GetRecipe(context.Context, *GetRecipeRequest) (*GetRecipeResponse, error)
	ListMarkets(context.Context, *ListMarketsRequest) (*ListMarketsResponse, error)
}

func RegisterKitchenServer(s grpc.ServiceRegistrar, srv KitchenServer) {
	s.RegisterService(&kitchenServiceDesc, srv)
}

var kitchenServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*KitchenServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Discover", Handler: discoverHandler},
		{MethodName: "GetRecipe", Handler: getRecipeHandler},
		{MethodName: "ListMarkets", Handler: listMarketsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cookingapp/kitchen",
}

func discoverHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DiscoverRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KitchenServer).Discover(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Discover"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KitchenServer).Discover(ctx, req.(*DiscoverRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getRecipeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRecipeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KitchenServer).GetRecipe(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetRecipe"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KitchenServer).GetRecipe(ctx, req.(*GetRecipeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listMarketsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListMarketsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KitchenServer).ListMarkets(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/ListMarkets"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KitchenServer).ListMarkets(ctx, req.(*ListMarketsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the kitchen service with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append(opts, grpc.CallContentSubtype(codecName))
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *Client) Discover(ctx context.Context, in *DiscoverRequest, opts ...grpc.CallOption) (*DiscoverResponse, error) {
	out := new(DiscoverResponse)
	if err := c.invoke(ctx, "Discover", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRecipe(ctx context.Context, in *GetRecipeRequest, opts ...grpc.CallOption) (*GetRecipeResponse, error) {
	out := new(GetRecipeResponse)
	if err := c.invoke(ctx, "GetRecipe", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMarkets(ctx context.Context, in *ListMarketsRequest, opts ...grpc.CallOption) (*ListMarketsResponse, error) {
	out := new(ListMarketsResponse)
	if err := c.invoke(ctx, "ListMarkets", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
