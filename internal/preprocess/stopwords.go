package preprocess

import "sync"

var (
	stopwordsOnce sync.Once
	stopwordsSet  map[string]struct{}
)

// englishStopwords is a compact general-English stopword list.
var englishStopwords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
	"at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from",
	"up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "once", "here", "there", "all", "any", "both", "each",
	"few", "more", "most", "other", "some", "such", "no", "nor", "not",
	"only", "own", "same", "so", "than", "too", "very", "s", "t", "can",
	"will", "just", "don", "should", "now", "is", "are", "was", "were",
	"be", "been", "being", "have", "has", "had", "having", "do", "does",
	"did", "doing", "it", "its", "itself", "this", "that", "these",
	"those", "i", "me", "my", "we", "our", "you", "your", "he", "him",
	"his", "she", "her", "they", "them", "their", "of", "as", "while",
	"also", "which", "who", "whom", "what",
}

// domainStopwords are generic-bibliometric terms that carry little
// discriminative signal for concept/keyword analysis on this domain
// ("generative artificial intelligence" by default).
var domainStopwords = []string{
	"paper", "study", "research", "approach", "method", "methods",
	"result", "results", "abstract", "introduction", "conclusion",
	"using", "based", "propose", "proposed", "show", "shows", "article",
}

// DefaultStopwords returns the combined English + domain-technical
// immutable stopword set.
func DefaultStopwords() map[string]struct{} {
	stopwordsOnce.Do(func() {
		stopwordsSet = make(map[string]struct{}, len(englishStopwords)+len(domainStopwords))
		for _, w := range englishStopwords {
			stopwordsSet[w] = struct{}{}
		}
		for _, w := range domainStopwords {
			stopwordsSet[w] = struct{}{}
		}
	})
	return stopwordsSet
}
