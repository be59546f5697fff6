package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// fakeConn отвечает на VerifyToken без сети
type fakeConn struct {
	method string
	token  string
	reply  map[string]any
	err    error
}

func (f *fakeConn) Invoke(_ context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	f.method = method
	f.token = args.(*wrapperspb.StringValue).GetValue()
	if f.err != nil {
		return f.err
	}
	s, err := structpb.NewStruct(f.reply)
	if err != nil {
		return err
	}
	proto.Merge(reply.(*structpb.Struct), s)
	return nil
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, status.Error(codes.Unimplemented, "no streams")
}

func TestClient_Verify(t *testing.T) {
	conn := &fakeConn{reply: map[string]any{
		"user_id": "u-1", "email": "ana@example.com", "first_name": "Ana", "last_name": "Lee",
	}}

	id, err := NewClient(conn).Verify(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u-1", Email: "ana@example.com", FirstName: "Ana", LastName: "Lee"}, id)
	assert.Equal(t, "/auth.AuthService/VerifyToken", conn.method)
	assert.Equal(t, "tok", conn.token)
}

func TestClient_VerifyRejects(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(&fakeConn{}).Verify(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewClient(&fakeConn{err: status.Error(codes.Unauthenticated, "expired")}).Verify(ctx, "tok")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewClient(&fakeConn{reply: map[string]any{"email": "x"}}).Verify(ctx, "tok")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewClient(&fakeConn{err: status.Error(codes.Unavailable, "down")}).Verify(ctx, "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestMiddleware(t *testing.T) {
	conn := &fakeConn{reply: map[string]any{"user_id": "u-1"}}
	var seen Identity
	h := Middleware(NewClient(conn), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", seen.UserID)
}

func TestStatic(t *testing.T) {
	id, err := Static{Identity: LocalIdentity}.Verify(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "local", id.UserID)
}

func TestNewConfig(t *testing.T) {
	t.Setenv("AUTH_ADDR", "")
	path := filepath.Join(t.TempDir(), ".auth.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_ADDR=auth:50051\n"), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "auth:50051", cfg.AuthAddr)

	cfg, err = NewConfig(filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Empty(t, cfg.AuthAddr)

	t.Setenv("AUTH_ADDR", "override:1")
	cfg, err = NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "override:1", cfg.AuthAddr)
}
