package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const AuthServiceName = packageName + ".AuthService"

const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure         = "/" + AuthServiceName + "/Logout"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// AuthServiceHandler is implemented by the account service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler returns the path to mount the service on and its handler.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, AuthServiceRegisterProcedure, svc.Register, o)
	handle(mux, AuthServiceLoginProcedure, svc.Login, o)
	handle(mux, AuthServiceLogoutProcedure, svc.Logout, o)
	handle(mux, AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, o)
	return "/" + AuthServiceName + "/", mux
}

// AuthServiceClient calls AuthService over Connect.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	logout         *connect.Client[LogoutRequest, LogoutResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	o := clientOptions(opts)
	return &AuthServiceClient{
		register:       newClient[RegisterRequest, RegisterResponse](httpClient, baseURL, AuthServiceRegisterProcedure, o),
		login:          newClient[LoginRequest, LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, o),
		logout:         newClient[LogoutRequest, LogoutResponse](httpClient, baseURL, AuthServiceLogoutProcedure, o),
		getCurrentUser: newClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, o),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
