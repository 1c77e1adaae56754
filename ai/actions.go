package ai

import (
	"encoding/json"
	"strings"
)

const (
	titleMaxRunes   = 20
	summaryMaxRunes = 120
	maxTags         = 5

	defaultTitle = "未命名内容"
	defaultTag   = "日常"
)

// tagCandidates is the fixed classification vocabulary used when no
// external generator is available or its call fails.
var tagCandidates = []string{"旅行", "美食", "学习", "日常", "运动", "音乐", "电影", "校园", "作业", "演示"}

// truncateRunes bounds s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// localTitle derives a short label from the text.
func localTitle(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return defaultTitle
	}
	if i := strings.IndexAny(text, "\n。！？"); i > 0 {
		text = text[:i]
	}
	return truncateRunes(strings.TrimSpace(text), titleMaxRunes)
}

// localSummary condenses the text by truncation.
func localSummary(text string) string {
	return truncateRunes(strings.TrimSpace(text), summaryMaxRunes)
}

// classifyTags matches the fixed vocabulary by substring containment,
// capped at maxTags, falling back to the default tag when nothing matches.
func classifyTags(text string) []string {
	var tags []string
	for _, c := range tagCandidates {
		if strings.Contains(text, c) {
			tags = append(tags, c)
			if len(tags) == maxTags {
				break
			}
		}
	}
	if len(tags) == 0 {
		return []string{defaultTag}
	}
	return tags
}

// parseTags extracts a tag list from free-form generator output: a JSON
// array if possible, otherwise a bracket-stripped split on commas and
// whitespace. Deduplicated, capped at maxTags.
func parseTags(raw string) []string {
	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		return dedupeTags(arr)
	}

	cleaned := strings.NewReplacer("[", "", "]", "", `"`, "", "'", "").Replace(raw)
	fields := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == ',' || r == '，' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return dedupeTags(fields)
}

func dedupeTags(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
