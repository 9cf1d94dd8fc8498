package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// KakaoConfig holds Kakao OAuth provider configuration.
type KakaoConfig struct {
	ClientID     string        `env:"KAKAO_OAUTH_CLIENT_ID,required"`
	ClientSecret string        `env:"KAKAO_OAUTH_CLIENT_SECRET"`
	RedirectURL  string        `env:"KAKAO_OAUTH_REDIRECT_URL,required"`
	StateTTL     time.Duration `env:"KAKAO_OAUTH_STATE_TTL" envDefault:"10m"`
}

// kakaoEndpoint is Kakao's OAuth 2.0 endpoint. x/oauth2 ships no preset
// for Kakao, so it is spelled out here.
var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

const kakaoProfileURL = "https://kapi.kakao.com/v2/user/me"

type kakaoAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	profileURL string
}

// KakaoAdapterOption configures the Kakao adapter.
type KakaoAdapterOption func(*kakaoAdapter)

// WithKakaoHTTPClient overrides the HTTP client used for profile requests,
// used by tests.
func WithKakaoHTTPClient(c *http.Client) KakaoAdapterOption {
	return func(a *kakaoAdapter) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithKakaoProfileURL overrides the profile endpoint, used by tests.
func WithKakaoProfileURL(u string) KakaoAdapterOption {
	return func(a *kakaoAdapter) {
		if u != "" {
			a.profileURL = u
		}
	}
}

// NewKakaoAdapter creates the Kakao OAuth provider adapter.
func NewKakaoAdapter(cfg KakaoConfig, opts ...KakaoAdapterOption) ProviderAdapter {
	a := &kakaoAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     kakaoEndpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		profileURL: kakaoProfileURL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *kakaoAdapter) Name() string { return "kakao" }

func (a *kakaoAdapter) AuthCodeURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

// ResolveProfile exchanges the authorization code and fetches the Kakao
// account profile.
func (a *kakaoAdapter) ResolveProfile(ctx context.Context, code string) (Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	u, err := a.fetchKakaoUser(ctx, tok.AccessToken)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	return Profile{
		ProviderID: strconv.FormatInt(u.ID, 10),
		Email:      u.KakaoAccount.Email,
		Nickname:   u.Properties.Nickname,
		AvatarURL:  u.Properties.ProfileImage,
	}, nil
}

func (a *kakaoAdapter) fetchKakaoUser(ctx context.Context, accessToken string) (*kakaoUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao api returned status %d", resp.StatusCode)
	}

	var user kakaoUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("kakao profile has no account id")
	}
	return &user, nil
}

type kakaoUser struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Email string `json:"email"`
	} `json:"kakao_account"`
}

var _ ProviderAdapter = (*kakaoAdapter)(nil)
