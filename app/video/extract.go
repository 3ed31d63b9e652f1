// Package video extracts social video links from message text and downloads them with an external
// downloader (yt-dlp compatible).
package video

import (
	"fmt"
	"regexp"
)

// Platform is a supported video hosting
type Platform string

// supported platforms
const (
	YouTube   Platform = "youtube"
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
)

// Link is a single video url on a platform
type Link struct {
	Platform Platform
	URL      string
}

func (l Link) String() string { return fmt.Sprintf("%s:%s", l.Platform, l.URL) }

// Links has at most one url per platform, empty if not found
type Links struct {
	YouTube   string
	Instagram string
	TikTok    string
}

// List returns found links in the order youtube, instagram, tiktok
func (l Links) List() []Link {
	res := []Link{}
	if l.YouTube != "" {
		res = append(res, Link{Platform: YouTube, URL: l.YouTube})
	}
	if l.Instagram != "" {
		res = append(res, Link{Platform: Instagram, URL: l.Instagram})
	}
	if l.TikTok != "" {
		res = append(res, Link{Platform: TikTok, URL: l.TikTok})
	}
	return res
}

// Empty returns true if no links found
func (l Links) Empty() bool { return l.YouTube == "" && l.Instagram == "" && l.TikTok == "" }

var (
	youtubeRe        = regexp.MustCompile(`(?i)https?://(?:www\.|m\.)?(?:youtube\.com|youtu\.be)/[^\s]+`)
	instagramRe      = regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/[^\s]+`)
	instagramShortRe = regexp.MustCompile(`(?i)instagram\.com/(p|reel|tv)/([^/?#\s]+)/?`)
	tiktokRe         = regexp.MustCompile(`(?i)https?://(?:www\.|m\.)?tiktok\.com/@[\w.-]+/video/\d+[^\s]*`)
	tiktokShortRe    = regexp.MustCompile(`(?i)https?://(?:vt|vm)\.tiktok\.com/[\w-]+/?`)
)

// Extract finds the first url of every supported platform in text.
// Full urls win over short forms, short instagram form is expanded to a full url.
func Extract(text string) Links {
	res := Links{YouTube: youtubeRe.FindString(text)}

	res.Instagram = instagramRe.FindString(text)
	if res.Instagram == "" {
		if m := instagramShortRe.FindStringSubmatch(text); m != nil {
			res.Instagram = fmt.Sprintf("https://www.instagram.com/%s/%s/", m[1], m[2])
		}
	}

	res.TikTok = tiktokRe.FindString(text)
	if res.TikTok == "" {
		res.TikTok = tiktokShortRe.FindString(text)
	}
	return res
}
