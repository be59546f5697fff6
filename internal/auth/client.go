package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const verifyTokenMethod = "/auth.AuthService/VerifyToken"

var ErrUnauthorized = errors.New("unauthorized")

// Identity - пользователь, которому принадлежит токен
type Identity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Client проверяет токены в сервисе auth
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}

	var resp structpb.Struct
	if err := c.conn.Invoke(ctx, verifyTokenMethod, wrapperspb.String(token), &resp); err != nil {
		switch status.Code(err) {
		case codes.Unauthenticated, codes.PermissionDenied, codes.NotFound:
			return Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}

	id := Identity{
		UserID:    field(&resp, "user_id"),
		Email:     field(&resp, "email"),
		FirstName: field(&resp, "first_name"),
		LastName:  field(&resp, "last_name"),
	}
	if id.UserID == "" {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}

func field(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// Static принимает любой токен и возвращает одного и того же пользователя.
// Используется, когда адрес сервиса auth не задан.
type Static struct {
	Identity Identity
}

func (s Static) Verify(context.Context, string) (Identity, error) {
	return s.Identity, nil
}

// LocalIdentity - пользователь для локального запуска
var LocalIdentity = Identity{UserID: "local", FirstName: "Local"}
