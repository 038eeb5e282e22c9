// Package summarize condenses email text. The extractive path is a
// self-contained TextRank over tf-idf sentence vectors; the abstractive
// path delegates to Gemini.
package summarize

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	dampingFactor  = 0.85
	pageRankIters  = 50
	pageRankEps    = 1e-6
	defaultTopK    = 3
	minSentenceLen = 10
)

var (
	wordRe        = regexp.MustCompile(`[a-z0-9']+`)
	sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// SplitSentences breaks text on sentence terminators followed by
// whitespace. Very short fragments are dropped, they carry no rankable
// content and skew the similarity matrix.
func SplitSentences(text string) []string {
	normalized := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	if normalized == "" {
		return nil
	}
	marked := sentenceEndRe.ReplaceAllString(normalized, "$1\x00")
	var out []string
	for _, s := range strings.Split(marked, "\x00") {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceLen {
			out = append(out, s)
		}
	}
	return out
}

func tokenize(sentence string) []string {
	return wordRe.FindAllString(strings.ToLower(sentence), -1)
}

// tfidfVectors builds one term-weight vector per sentence. Terms that
// appear in every sentence get zero idf and drop out, which keeps
// boilerplate like greetings from linking unrelated sentences.
func tfidfVectors(sentences []string) []map[string]float64 {
	n := len(sentences)
	docFreq := make(map[string]int)
	tokenized := make([][]string, n)
	for i, s := range sentences {
		tokenized[i] = tokenize(s)
		seen := make(map[string]bool)
		for _, w := range tokenized[i] {
			if !seen[w] {
				seen[w] = true
				docFreq[w]++
			}
		}
	}

	vectors := make([]map[string]float64, n)
	for i, words := range tokenized {
		vec := make(map[string]float64)
		if len(words) == 0 {
			vectors[i] = vec
			continue
		}
		tf := make(map[string]float64)
		for _, w := range words {
			tf[w]++
		}
		for w, count := range tf {
			idf := math.Log(float64(n)/float64(docFreq[w])) + 1
			vec[w] = (count / float64(len(words))) * idf
		}
		vectors[i] = vec
	}
	return vectors
}

func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for w, va := range a {
		normA += va * va
		if vb, ok := b[w]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// pageRank runs power iteration over the row-normalized similarity matrix.
func pageRank(sim [][]float64) []float64 {
	n := len(sim)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}
	rowSum := make([]float64, n)
	for i, row := range sim {
		for _, v := range row {
			rowSum[i] += v
		}
	}

	for iter := 0; iter < pageRankIters; iter++ {
		next := make([]float64, n)
		for i := 0; i < n; i++ {
			rank := 0.0
			for j := 0; j < n; j++ {
				if j == i || rowSum[j] == 0 {
					continue
				}
				rank += scores[j] * sim[j][i] / rowSum[j]
			}
			next[i] = (1-dampingFactor)/float64(n) + dampingFactor*rank
		}
		delta := 0.0
		for i := range next {
			delta += math.Abs(next[i] - scores[i])
		}
		scores = next
		if delta < pageRankEps {
			break
		}
	}
	return scores
}

// Extract returns the topK highest-ranked sentences of text, most
// important first. Texts with no more than topK sentences come back
// whole, in reading order.
func Extract(text string, topK int) string {
	if topK < 1 {
		topK = defaultTopK
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}
	if len(sentences) <= topK {
		return strings.Join(sentences, " ")
	}

	vectors := tfidfVectors(sentences)
	n := len(sentences)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
		for j := range sim[i] {
			if i != j {
				sim[i][j] = cosine(vectors[i], vectors[j])
			}
		}
	}

	scores := pageRank(sim)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	picked := make([]string, 0, topK)
	for _, i := range idx[:topK] {
		picked = append(picked, sentences[i])
	}
	return strings.Join(picked, " ")
}

// BestMatchingSnippets returns up to limit sentences ranked by how many
// query terms they contain. Used to surface the lines of an email most
// relevant to a caller-supplied question.
func BestMatchingSnippets(text, query string, limit int) []string {
	if limit < 1 {
		limit = defaultTopK
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	sentences := SplitSentences(text)

	type scored struct {
		sentence string
		hits     int
	}
	var matches []scored
	for _, s := range sentences {
		lower := strings.ToLower(s)
		hits := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				hits++
			}
		}
		if hits > 0 {
			matches = append(matches, scored{sentence: s, hits: hits})
		}
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].hits > matches[b].hits })

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.sentence
	}
	return out
}
