package europarl

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"leavex-backend/internal/records"
	"leavex-backend/lib/htmlutil"
	"leavex-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// MemberRef is one entry of the member list page. Id is the numeric
// identifier from the profile URL path, which the source keeps stable
// across legislative terms.
type MemberRef struct {
	Id         string
	Name       string
	Country    string
	Group      string
	Party      string
	ProfileUrl string
}

// MemberDetail is what the profile page adds on top of the list entry.
type MemberDetail struct {
	Email string
	XUrl  string
}

var memberIdRegex = regexp.MustCompile(`^\d+$`)

// ParseDirectory extracts member refs from the full list page. list
// items without a numeric profile id are logged and skipped, the
// caller decides whether an implausibly small result set is fatal.
func ParseDirectory(doc *goquery.Document, baseUrl *url.URL) []MemberRef {
	var refs []MemberRef

	doc.Find(".erpl_member-list-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a[href]").First()
		href, ok := link.Attr("href")
		if !ok {
			slog.Debug("member list item without link", "text", htmlutil.CleanText(item))
			return
		}

		profileUrl, err := url.Parse(href)
		if err != nil {
			slog.Debug("member list item with bad link", "href", href, "err", err)
			return
		}
		profileUrl = baseUrl.ResolveReference(profileUrl)

		segments := strings.Split(strings.Trim(profileUrl.Path, "/"), "/")
		id := segments[len(segments)-1]
		if !memberIdRegex.MatchString(id) {
			slog.Debug("member list item without numeric id", "href", href)
			return
		}

		name := htmlutil.CleanText(item.Find(".erpl_title-h4").First())

		// the three info lines below the name are group, country
		// and national party, in that order
		var info []string
		item.Find(".sln-additional-info").Each(func(_ int, line *goquery.Selection) {
			info = append(info, htmlutil.CleanText(line))
		})
		get := func(i int) string {
			if i < len(info) {
				return info[i]
			}
			return ""
		}

		refs = append(refs, MemberRef{
			Id:         id,
			Name:       name,
			Group:      get(0),
			Country:    get(1),
			Party:      get(2),
			ProfileUrl: profileUrl.String(),
		})
	})

	return refs
}

// ParseMember extracts the decoded contact email and the X profile
// link, if any, from a member's profile page.
func ParseMember(ctx context.Context, doc *goquery.Document) MemberDetail {
	detail := MemberDetail{}

	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a.link_email[href]")) {
		email := DecodeEmail(anchor.Href)
		if email != "" {
			detail.Email = email
			break
		}
	}

	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a[href]")) {
		if isXProfileUrl(anchor.Href) {
			detail.XUrl = anchor.Href
			break
		}
	}

	return detail
}

func isXProfileUrl(href string) bool {
	link, err := url.Parse(href)
	if err != nil {
		return false
	}
	return records.IsXHost(link.Hostname())
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// DecodeEmail undoes the source's email obfuscation: a mailto link
// whose address has "[at]"/"[dot]" substituted and may be written
// backwards. returns "" when no plausible address comes out.
func DecodeEmail(href string) string {
	s := strings.TrimPrefix(strings.TrimSpace(href), "mailto:")
	// tokens appear in both orientations depending on whether the
	// source reversed the address before or after inserting them
	s = strings.ReplaceAll(s, "[dot]", ".")
	s = strings.ReplaceAll(s, "[at]", "@")
	s = strings.ReplaceAll(s, "]tod[", ".")
	s = strings.ReplaceAll(s, "]ta[", "@")

	reversed := textutil.Reverse(s)

	// both orientations can look address-shaped, so prefer the one
	// whose domain ends in a recognizable TLD
	if emailRegex.MatchString(reversed) && hasPlausibleTld(reversed) {
		return reversed
	}
	if emailRegex.MatchString(s) && hasPlausibleTld(s) {
		return s
	}
	if emailRegex.MatchString(s) {
		return s
	}
	return ""
}

var plausibleTlds = map[string]bool{
	"eu": true, "com": true, "org": true, "net": true, "info": true,
	"at": true, "be": true, "bg": true, "cy": true, "cz": true,
	"de": true, "dk": true, "ee": true, "es": true, "fi": true,
	"fr": true, "gr": true, "hr": true, "hu": true, "ie": true,
	"it": true, "lt": true, "lu": true, "lv": true, "mt": true,
	"nl": true, "pl": true, "pt": true, "ro": true, "se": true,
	"si": true, "sk": true,
}

func hasPlausibleTld(email string) bool {
	lastDot := strings.LastIndex(email, ".")
	if lastDot < 0 {
		return false
	}
	return plausibleTlds[strings.ToLower(email[lastDot+1:])]
}
