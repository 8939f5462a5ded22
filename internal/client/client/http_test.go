package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/MacaulyV/foodbridge/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(tok string) TokenSource {
	return func(context.Context) (string, error) { return tok, nil }
}

func newTestClient(t *testing.T, h http.Handler, tokens TokenSource) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Tokens: tokens})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost"})
	require.Error(t, err)
}

func TestBearerHeader_PresentOnlyWithToken(t *testing.T) {
	var got atomic.Value
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	})

	c := newTestClient(t, h, staticToken("abc"))
	_, err := c.ListDonations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got.Load())

	c = newTestClient(t, h, staticToken(""))
	_, err = c.ListDonations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())

	c = newTestClient(t, h, func(context.Context) (string, error) { return "", errors.New("db closed") })
	_, err = c.ListDonations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())
}

func TestLogin_ParsesTokenAndUser(t *testing.T) {
	var body map[string]string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"token":"t1","user":{"id":7,"nome":"Ana","email":"ana@x.io","tipo":"ONG"}}`)
	})

	res, err := newTestClient(t, h, nil).Login(context.Background(), "ana@x.io", "secret")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "ana@x.io", "senha": "secret"}, body)
	assert.Equal(t, "t1", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "7", string(res.User.ID))
	assert.Equal(t, "ONG", res.User.Tipo)
}

func TestParseAuth_PathVariants(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		token    string
		userName string
	}{
		{"plain", `{"token":"a","user":{"nome":"A"}}`, "a", "A"},
		{"accessToken usuario", `{"accessToken":"b","usuario":{"nome":"B"}}`, "b", "B"},
		{"data wrapper", `{"data":{"token":"c","user":{"nome":"C"}}}`, "c", "C"},
		{"data usuario", `{"data":{"token":"d","usuario":{"nome":"D"}}}`, "d", "D"},
		{"no user", `{"token":"e"}`, "e", ""},
		{"user nested deeper is ignored", `{"token":"f","payload":{"user":{"nome":"F"}}}`, "f", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseAuth([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.token, res.Token)
			if tt.userName == "" {
				assert.Nil(t, res.User)
				return
			}
			require.NotNil(t, res.User)
			assert.Equal(t, tt.userName, res.User.Nome)
		})
	}

	_, err := parseAuth([]byte(`{"user":{}}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLogin_Unauthorized(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"erro":"Senha incorreta"}`)
	})

	_, err := newTestClient(t, h, nil).Login(context.Background(), "a@b.c", "x")
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "Senha incorreta", apiErr.Message)
}

func TestRegister_WithoutToken(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Centro", req.Bairro)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"message":"Usuário criado"}`)
	})

	res, err := newTestClient(t, h, nil).Register(context.Background(), RegisterRequest{
		Nome: "A", Email: "a@b.c", Senha: "123456", Tipo: "ONG", Cidade: "SP", Bairro: "Centro",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Token)
	assert.Nil(t, res.User)
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.ListDonations(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTimeout_IsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	err = c.DeleteDonation(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDonationLists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/donations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"nome_alimento":"Arroz","imagens":["http://x/a.jpg"]}]`)
	})
	mux.HandleFunc("/donations/user/42", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"doacoes":[{"id":"2","usuario_id":42,"nome_alimento":"Feijão"}]}`)
	})
	c := newTestClient(t, mux, nil)

	all, err := c.ListDonations(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Arroz", all[0].FoodName)
	assert.Equal(t, []string{"http://x/a.jpg"}, all[0].Images)

	mine, err := c.ListUserDonations(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "42", string(mine[0].UserID))
}

func TestCreateDonation_Multipart(t *testing.T) {
	img := filepath.Join(t.TempDir(), "rice.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Arroz", r.FormValue("nome_alimento"))
		files := r.MultipartForm.File["imagens"]
		require.Len(t, files, 1)
		assert.Equal(t, "rice.png", files[0].Filename)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"ok","doacao":{"id":9,"nome_alimento":"Arroz"}}`)
	})

	form := &netx.Form{}
	form.Set("nome_alimento", "Arroz")
	form.Attach("imagens", img)

	d, err := newTestClient(t, h, staticToken("t")).CreateDonation(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "9", string(d.ID))
}

func TestGetUserComplete(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/5/completo", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":5,"nome":"Bia","doacoes":[{"id":1},{"id":2}]}`)
	})

	u, err := newTestClient(t, h, nil).GetUserComplete(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Bia", u.Nome)
	assert.Len(t, u.Doacoes, 2)
}

func TestDeleteDonation_NotFound(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		http.Error(w, `{"message":"Doação não encontrada"}`, http.StatusNotFound)
	})

	err := newTestClient(t, h, nil).DeleteDonation(context.Background(), "3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckConnection(t *testing.T) {
	t.Run("first endpoint below 500 wins", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		})
		rep := newTestClient(t, h, nil).CheckConnection(context.Background())
		assert.True(t, rep.OK)
		assert.Equal(t, "/users/login", rep.Endpoint)
		assert.Equal(t, http.StatusMethodNotAllowed, rep.Status)
	})

	t.Run("falls through 5xx", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusBadGateway)
		})
		c := newTestClient(t, h, nil)
		rep := c.CheckConnection(context.Background())
		assert.True(t, rep.OK)
		assert.Equal(t, "/", rep.Endpoint)
		assert.NoError(t, c.Ping(context.Background()))
	})

	t.Run("all fail", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		c := newTestClient(t, h, nil)
		rep := c.CheckConnection(context.Background())
		assert.False(t, rep.OK)
		assert.ErrorIs(t, rep.Err, ErrServer)
		assert.Error(t, c.Ping(context.Background()))
	})
}

func TestWrites_EmptyBodyIsAcknowledgement(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, h, staticToken("t"))
	ctx := context.Background()

	u, err := c.UpdateUser(ctx, "1", UpdateUserRequest{Nome: "Ana"})
	require.NoError(t, err)
	assert.Nil(t, u)

	form := &netx.Form{}
	form.Set("nome_alimento", "Arroz")
	d, err := c.CreateDonation(ctx, form)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Empty(t, d.ID)

	d, err = c.UpdateDonation(ctx, "9", form)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Empty(t, d.ID)
}

func TestUpdateUser_PlainTextAck(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "OK")
	})
	u, err := newTestClient(t, h, nil).UpdateUser(context.Background(), "1", UpdateUserRequest{})
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUpdateUser_SendsBodyAndParsesUser(t *testing.T) {
	var body map[string]any
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"message":"ok","usuario":{"id":7,"nome":"Ana Maria","tipo":"ONG"}}`)
	})

	u, err := newTestClient(t, h, staticToken("t")).UpdateUser(context.Background(), "7", UpdateUserRequest{
		Nome: "Ana Maria", Email: "ana@x.io", Tipo: "ONG",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Ana Maria", u.Nome)
	assert.Equal(t, "Ana Maria", body["nome"])
	assert.NotContains(t, body, "senha")
}

func TestUpdateDonation_KeptImagesField(t *testing.T) {
	cases := []struct {
		name string
		keep string
		want []string
	}{
		{name: "nothing kept", keep: ""},
		{name: "some kept", keep: "a.jpg,b.jpg", want: []string{"a.jpg,b.jpg"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			var present bool
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/donations/9", r.URL.Path)
				require.NoError(t, r.ParseMultipartForm(1<<20))
				got, present = r.MultipartForm.Value["imagens_manter"]
				_, _ = io.WriteString(w, `{"doacao":{"id":9}}`)
			})

			form := &netx.Form{}
			form.Set("nome_alimento", "Arroz")
			if tc.keep != "" {
				form.Set("imagens_manter", tc.keep)
			}
			d, err := newTestClient(t, h, nil).UpdateDonation(context.Background(), "9", form)
			require.NoError(t, err)
			assert.Equal(t, "9", string(d.ID))
			assert.Equal(t, tc.want != nil, present)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequestLogging_OnlyInDebug(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	for _, debug := range []bool{true, false} {
		var buf bytes.Buffer
		c, err := New(Options{BaseURL: srv.URL, Debug: debug, Logger: logging.NewTextLogger(&buf, "debug")})
		require.NoError(t, err)

		_, err = c.ListDonations(context.Background())
		require.NoError(t, err)
		_ = c.Close()

		if debug {
			assert.Contains(t, buf.String(), "api request")
			assert.Contains(t, buf.String(), "api response")
			assert.Contains(t, buf.String(), "status=200")
			assert.Contains(t, buf.String(), "/donations")
		} else {
			assert.Empty(t, buf.String())
		}
	}
}

func TestNewAPIError_TruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", maxDetails-1) + "ão"
	err := newAPIError(http.StatusBadRequest, []byte(body))
	assert.True(t, utf8.ValidString(err.Details))
	assert.LessOrEqual(t, len(err.Details), maxDetails)
	assert.Equal(t, strings.Repeat("a", maxDetails-1), err.Details)
}
