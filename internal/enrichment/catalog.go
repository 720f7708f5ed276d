package enrichment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Topic is a keyword bucket of the static fallback catalog
type Topic struct {
	Name       string
	Category   string
	terms      []string
	pattern    *regexp.Regexp
	Videos     []string
	Thumbnails []string
}

func newTopic(name, category string, terms []string, videos, thumbnails []string) *Topic {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return &Topic{
		Name:       name,
		Category:   category,
		terms:      terms,
		pattern:    regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		Videos:     videos,
		Thumbnails: thumbnails,
	}
}

func watch(id string) string { return "https://www.youtube.com/watch?v=" + id }

func unsplash(id string) string { return "https://images.unsplash.com/" + id + "?w=800&q=80" }

// topics are matched in order; more specific buckets come first
var topics = []*Topic{
	newTopic("machine learning", "Machine Learning",
		[]string{"machine learning", "deep learning", "neural network", "neural networks", "artificial intelligence", "ai", "ml"},
		[]string{watch("i_LwzRVP7bg"), watch("7eh4d6sabA0"), watch("aircAruvnKk")},
		[]string{unsplash("photo-1555255707-c07966088b7b"), unsplash("photo-1677442136019-21780ecad995")}),
	newTopic("react", "Web Development",
		[]string{"react", "redux", "next.js", "nextjs"},
		[]string{watch("bMknfKXIFA8"), watch("SqcY0GlETPk"), watch("w7ejDZ8SWv8")},
		[]string{unsplash("photo-1633356122544-f134324a6cee"), unsplash("photo-1587620962725-abab7fe55159")}),
	newTopic("javascript", "Web Development",
		[]string{"javascript", "js", "typescript", "node", "node.js", "nodejs"},
		[]string{watch("PkZNo7MFNFg"), watch("W6NZfCO5SIk"), watch("hdI2bqOjy3c")},
		[]string{unsplash("photo-1579468118864-1b9ea3c0db4a"), unsplash("photo-1627398242454-45a1465c2479")}),
	newTopic("python", "Programming",
		[]string{"python", "django", "flask"},
		[]string{watch("rfscVS0vtbw"), watch("_uQrJ0TkZlc"), watch("kqtD5dpn9C8")},
		[]string{unsplash("photo-1526379095098-d400fd0bf935"), unsplash("photo-1649180556628-9ba704115795")}),
	newTopic("java", "Programming",
		[]string{"java", "spring", "kotlin"},
		[]string{watch("eIrMbAQSU34"), watch("grEKMHGYyns"), watch("A74TOX803D0")},
		[]string{unsplash("photo-1517694712202-14dd9538aa97"), unsplash("photo-1588239034647-25783cbfcfc1")}),
	newTopic("web", "Web Development",
		[]string{"web", "html", "css", "frontend", "front-end", "website", "websites"},
		[]string{watch("mU6anWqZJcc"), watch("UB1O30fR-EE"), watch("yfoY53QXEnI")},
		[]string{unsplash("photo-1547658719-da2b51169166"), unsplash("photo-1498050108023-c5249f4df085")}),
	newTopic("data", "Data Science",
		[]string{"data", "data science", "sql", "database", "databases", "analytics", "statistics", "pandas", "excel"},
		[]string{watch("ua-CiDNNj30"), watch("HXV3zeQKqGY"), watch("7S_tz1z_5bA")},
		[]string{unsplash("photo-1551288049-bebda4e38f71"), unsplash("photo-1460925895917-afdab827c52f")}),
	newTopic("mobile", "Mobile Development",
		[]string{"mobile", "android", "ios", "flutter", "swift", "react native"},
		[]string{watch("VPvVD8t02U8"), watch("fis26HvvDII"), watch("comQ1-x2a1Q")},
		[]string{unsplash("photo-1512941937669-90a1b58e7e9c"), unsplash("photo-1551650975-87deedd944c3")}),
	newTopic("cloud", "Cloud Computing",
		[]string{"cloud", "aws", "azure", "devops", "docker", "kubernetes"},
		[]string{watch("SOTamWNgDKc"), watch("3c-iBn73dDE"), watch("X48VuDVv0do")},
		[]string{unsplash("photo-1451187580459-43490279c0fa"), unsplash("photo-1544197150-b99a580bb7a8")}),
	newTopic("security", "Cybersecurity",
		[]string{"security", "cybersecurity", "hacking", "ethical hacking", "networking", "cryptography"},
		[]string{watch("U_P23SqJaDc"), watch("3Kq1MIfTWCE"), watch("qiQR5rTSshw")},
		[]string{unsplash("photo-1550751827-4bd374c3f58b"), unsplash("photo-1563986768609-322da13575f3")}),
	newTopic("design", "Design",
		[]string{"design", "ui", "ux", "figma", "photoshop", "graphic", "illustration"},
		[]string{watch("c9Wg6Cb_YlU"), watch("jwCmIBJ8Jtc"), watch("YqQx75OPRa0")},
		[]string{unsplash("photo-1561070791-2526d30994b5"), unsplash("photo-1559028012-481c04fa702d")}),
	newTopic("business", "Business",
		[]string{"business", "management", "entrepreneur", "entrepreneurship", "startup", "finance", "leadership"},
		[]string{watch("ZoqgAy3h4OM"), watch("Z6HEp5YIXaE"), watch("tPKHqBmdGnU")},
		[]string{unsplash("photo-1454165804606-c3d57bc86b40"), unsplash("photo-1507679799987-c73779587ccf")}),
	newTopic("marketing", "Marketing",
		[]string{"marketing", "seo", "social media", "advertising", "branding", "content strategy"},
		[]string{watch("bixR-KIJKYM"), watch("nU-IIXBWlS4"), watch("DvwS7cV9GmQ")},
		[]string{unsplash("photo-1533750349088-cd871a92f312"), unsplash("photo-1432888622747-4eb9a8efeb07")}),
}

// defaultTopic is used when no keyword matches
var defaultTopic = &Topic{
	Name:     "general",
	Category: "General",
	Videos:   []string{watch("O96fE1E-rf8"), watch("5MgBikgcWnY"), watch("IlU-zDU6aQ0")},
	Thumbnails: []string{
		unsplash("photo-1501504905252-473c47e087f8"),
		unsplash("photo-1434030216411-0b793f4b4173"),
		unsplash("photo-1523240795612-9a054b0db644"),
	},
}

// MatchKeyword returns the first topic whose keywords appear in texts, scanning texts in order
func MatchKeyword(texts ...string) (*Topic, bool) {
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, t := range topics {
			if t.pattern.MatchString(text) {
				return t, true
			}
		}
	}
	return nil, false
}

// TopicFor returns the matched topic or the default bucket
func TopicFor(texts ...string) *Topic {
	if t, ok := MatchKeyword(texts...); ok {
		return t
	}
	return defaultTopic
}

// StockImage returns a stock photo for free text, falling back to a default image
func StockImage(text string) string {
	t := TopicFor(text)
	return t.Thumbnails[pickIndex(text, len(t.Thumbnails))]
}

// Categories returns the distinct catalog categories in declaration order
func Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range topics {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// pickIndex derives a stable index in [0, n) from the leading character of title
func pickIndex(title string, n int) int {
	if n <= 0 {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(title))
	if r == utf8.RuneError {
		return 0
	}
	return int(unicode.ToLower(r)) % n
}
