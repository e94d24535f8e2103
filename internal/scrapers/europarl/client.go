// Package europarl scrapes the European Parliament's public MEP
// directory: the full member list page for names, countries, groups
// and parties, and each member's profile page for a contact email
// and any linked X account.
package europarl

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"leavex-backend/internal/pagecache"
	"leavex-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("leavex.scrapers.europarl")

const DefaultBaseUrl = "https://www.europarl.europa.eu"

var instrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	instrumentOutput = output
}

type ClientOptions struct {
	BaseUrl string
	// if non-nil, fetched pages are recorded here
	Cache *pagecache.Cache
	// if true, pages are served from Cache only, no network calls
	Offline bool
}

type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	cache   *pagecache.Cache
	offline bool
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.Offline && opts.Cache == nil {
		return nil, fmt.Errorf("offline mode requires a page cache")
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetHeader("accept-language", "en-GB,en;q=0.9")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	httpClient.SetTimeout(time.Second * 30)

	// 2 requests max per second, the directory is big and the server
	// is shared with the rest of the public
	rateLimiter := rate.NewLimiter(2, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(httpClient, tracer, instrumentOutput)

	return &Client{
		baseUrl: parsedBaseUrl,
		http:    httpClient,
		cache:   opts.Cache,
		offline: opts.Offline,
	}, nil
}

func (c *Client) fetchPage(ctx context.Context, pageUrl string) ([]byte, error) {
	if c.offline {
		return c.cache.Get(ctx, pageUrl)
	}

	res, err := c.http.R().SetContext(ctx).Get(pageUrl)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", pageUrl, res.StatusCode())
	}

	body := res.Body()
	if c.cache != nil {
		err = c.cache.Put(ctx, pageUrl, body)
		if err != nil {
			return nil, fmt.Errorf("record page in cache: %w", err)
		}
	}
	return body, nil
}

func (c *Client) fetchDocument(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	body, err := c.fetchPage(ctx, pageUrl)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// FetchDirectory fetches and parses the full member list.
func (c *Client) FetchDirectory(ctx context.Context) ([]MemberRef, error) {
	ctx, span := tracer.Start(ctx, "FetchDirectory")
	defer span.End()

	listUrl := c.baseUrl.JoinPath("/meps/en/full-list/all").String()
	doc, err := c.fetchDocument(ctx, listUrl)
	if err != nil {
		return nil, fmt.Errorf("fetch member list: %w", err)
	}
	return ParseDirectory(doc, c.baseUrl), nil
}

// FetchMember fetches and parses one member's profile page.
func (c *Client) FetchMember(ctx context.Context, ref MemberRef) (MemberDetail, error) {
	ctx, span := tracer.Start(ctx, "FetchMember")
	defer span.End()

	doc, err := c.fetchDocument(ctx, ref.ProfileUrl)
	if err != nil {
		return MemberDetail{}, fmt.Errorf("fetch member %s: %w", ref.Id, err)
	}
	return ParseMember(ctx, doc), nil
}
