package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies the applicant tracking system hosting a job page.
type Platform string

// Known job board platforms.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// platformRules maps host suffixes to the selectors that isolate the posting.
// Content selectors are tried in order; noise selectors are removed first.
type platformRules struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var knownPlatforms = []platformRules{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".gwt-HTML", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='descriptionText']", "main"},
		noise:    []string{"[class*='applicationForm']", "[class*='jobPostingHeader'] button"},
	},
}

// commonNoise is stripped from every page: apply forms, EEO blocks, share
// widgets and consent banners.
var commonNoise = []string{
	"form", "#application-form", ".application-form", ".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure", ".eeo-statement", ".eeo-section", ".legal-disclosure", ".self-identification",
	".social-share", ".share-buttons", ".social-links",
	".cookie-banner", ".cookie-consent", ".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL's host.
func DetectPlatform(rawURL string) Platform {
	if rules := lookupPlatform(rawURL); rules != nil {
		return rules.platform
	}
	return PlatformUnknown
}

func lookupPlatform(rawURL string) *platformRules {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for i := range knownPlatforms {
		for _, suffix := range knownPlatforms[i].hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return &knownPlatforms[i]
			}
		}
	}
	return nil
}

func rulesFor(platform Platform) *platformRules {
	for i := range knownPlatforms {
		if knownPlatforms[i].platform == platform {
			return &knownPlatforms[i]
		}
	}
	return nil
}

// PlatformContentSelectors returns the posting selectors for platform, or the
// generic job posting selectors when the platform is unknown.
func PlatformContentSelectors(platform Platform) []string {
	if rules := rulesFor(platform); rules != nil {
		return append([]string(nil), rules.content...)
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the common noise selectors plus any specific to platform.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string(nil), commonNoise...)
	if rules := rulesFor(platform); rules != nil {
		out = append(out, rules.noise...)
	}
	return out
}
