package devtools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/stencil/pkg/command"
	"github.com/arthur-debert/stencil/pkg/probe"
	"github.com/beevik/etree"
)

// VersionKey is the plist key holding the developer tools version
const VersionKey = "spdevtools_version"

var (
	plistPattern        = regexp.MustCompile(`(?s)(?P<plist><plist\b.*</plist>)`)
	versionValuePattern = regexp.MustCompile(`^\s*(?P<major>\p{Nd}+)\.(?P<minor>\p{Nd}+)` + wordEnd)
)

// DetectVersionXML is DetectVersion using the plist report. Failures are
// classified the same way; a document that does not parse or lacks the
// version key is KindOutputUnrecognized.
func DetectVersionXML(ctx context.Context, exec command.Executor) (Version, error) {
	v, err := probe.Run(ctx, exec, XMLCommandLine, plistPattern, func(groups map[string]string) (Version, error) {
		raw, err := plistVersion(groups["plist"])
		if err != nil {
			return Version{}, &Error{Kind: KindOutputUnrecognized, Err: err}
		}
		return parseVersionValue(raw)
	})
	if err != nil {
		return Version{}, fromProbe(err)
	}
	return v, nil
}

// plistVersion returns the string value following the first VersionKey key.
func plistVersion(doc string) (string, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(doc); err != nil {
		return "", fmt.Errorf("invalid plist: %w", err)
	}

	for _, dict := range tree.FindElements("//dict") {
		children := dict.ChildElements()
		for i, child := range children {
			if child.Tag != "key" || strings.TrimSpace(child.Text()) != VersionKey {
				continue
			}
			if i+1 >= len(children) || children[i+1].Tag != "string" {
				return "", fmt.Errorf("key %q has no string value", VersionKey)
			}
			return children[i+1].Text(), nil
		}
	}
	return "", fmt.Errorf("key %q not found", VersionKey)
}

func parseVersionValue(raw string) (Version, error) {
	groups, ok := probe.Search(raw, versionValuePattern)
	if !ok {
		return Version{}, &Error{
			Kind: KindOutputUnrecognized,
			Raw:  raw,
			Err:  fmt.Errorf("version value %q is not major.minor", raw),
		}
	}
	return ParseVersion(groups)
}
