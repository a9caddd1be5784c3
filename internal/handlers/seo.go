package handlers

import (
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	feedSize        = 20
	sitemapPostSize = 500
	feedTitleLen    = 60
)

type SEOHandler struct {
	posts   *services.PostService
	groups  *services.GroupService
	siteURL string
}

func NewSEOHandler(posts *services.PostService, groups *services.GroupService, siteURL string) *SEOHandler {
	return &SEOHandler{posts: posts, groups: groups, siteURL: strings.TrimRight(siteURL, "/")}
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /admin/
Disallow: /auth/
Disallow: /create/
Disallow: /follow/
Disallow: /*/edit/

Sitemap: %s/sitemap.xml
`, h.siteURL)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the home page, every group, the authors of recent posts
// and the recent posts themselves.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().Format("2006-01-02")

	groups, err := h.groups.List(ctx)
	if err != nil {
		h.xmlError(c, err)
		return
	}
	posts, err := h.posts.Recent(ctx, 0, sitemapPostSize)
	if err != nil {
		h.xmlError(c, err)
		return
	}

	set := urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Loc: h.siteURL + "/", LastMod: now, ChangeFreq: "hourly", Priority: "1.0"})
	for _, g := range groups {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + "/group/" + g.Slug + "/",
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}

	seen := map[uint]bool{}
	for _, p := range posts {
		if seen[p.AuthorID] {
			continue
		}
		seen[p.AuthorID] = true
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + profileURL(p.Author.Username),
			ChangeFreq: "daily",
			Priority:   "0.6",
		})
	}

	for _, p := range posts {
		// newer posts change more often (comments)
		changefreq, priority := "weekly", "0.6"
		if time.Since(p.CreatedAt) < 7*24*time.Hour {
			changefreq, priority = "daily", "0.8"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + detailURL(p.ID),
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: changefreq,
			Priority:   priority,
		})
	}

	h.writeXML(c, "application/xml; charset=utf-8", set)
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Author      string  `xml:"author,omitempty"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RSSFeed serves the latest posts as RSS 2.0.
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	posts, err := h.posts.Recent(c.Request.Context(), 0, feedSize)
	if err != nil {
		h.xmlError(c, err)
		return
	}
	h.writeFeed(c, "Yatube", h.siteURL+"/", "Latest posts on Yatube", posts)
}

// GroupRSSFeed serves the latest posts of one group.
func (h *SEOHandler) GroupRSSFeed(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := h.groups.BySlug(ctx, c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	posts, err := h.posts.Recent(ctx, group.ID, feedSize)
	if err != nil {
		h.xmlError(c, err)
		return
	}
	h.writeFeed(c, "Yatube: "+group.Title, h.siteURL+"/group/"+group.Slug+"/", group.Description, posts)
}

func (h *SEOHandler) writeFeed(c *gin.Context, title, link, description string, posts []models.Post) {
	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         title,
			Link:          link,
			Description:   description,
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}
	for _, p := range posts {
		postLink := h.siteURL + detailURL(p.ID)
		item := rssItem{
			Title:       models.Truncate(utils.PlainText(string(utils.RenderMarkdown(p.Text))), feedTitleLen),
			Link:        postLink,
			Description: string(utils.RenderMarkdown(p.Text)),
			Author:      p.Author.Username,
			PubDate:     p.CreatedAt.Format(time.RFC1123Z),
			GUID:        rssGUID{IsPermaLink: true, Value: postLink},
		}
		if p.Group != nil {
			item.Category = p.Group.Title
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}
	h.writeXML(c, "application/rss+xml; charset=utf-8", doc)
}

func (h *SEOHandler) writeXML(c *gin.Context, contentType string, v any) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		h.xmlError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}

func (h *SEOHandler) xmlError(c *gin.Context, err error) {
	log.Printf("%s: %v", c.Request.URL.Path, err)
	c.String(http.StatusInternalServerError, "internal server error")
}
