package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

const (
	tokenUnknown   = "[UNK]"
	tokenClassify  = "[CLS]"
	tokenSeparator = "[SEP]"

	// maxSequenceLength truncates input to the model's supported window.
	maxSequenceLength = 256
	// maxWordPieceLen skips pathological "words" instead of subword-matching
	// them character by character.
	maxWordPieceLen = 100
)

// WordPieceTokenizer implements greedy longest-match-first subword
// tokenization against a BERT-style vocab file (one token per line, id =
// line number).
type WordPieceTokenizer struct {
	vocab map[string]int64
	unkID int64
	clsID int64
	sepID int64
}

func LoadWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab failed: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	sc := bufio.NewScanner(f)
	var id int64
	for sc.Scan() {
		vocab[strings.TrimSpace(sc.Text())] = id
		id++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocab failed: %w", err)
	}

	t := &WordPieceTokenizer{vocab: vocab}
	var ok bool
	if t.unkID, ok = vocab[tokenUnknown]; !ok {
		return nil, fmt.Errorf("vocab is missing %s", tokenUnknown)
	}
	if t.clsID, ok = vocab[tokenClassify]; !ok {
		return nil, fmt.Errorf("vocab is missing %s", tokenClassify)
	}
	if t.sepID, ok = vocab[tokenSeparator]; !ok {
		return nil, fmt.Errorf("vocab is missing %s", tokenSeparator)
	}
	return t, nil
}

// Encode returns the word-piece tokens of text and the model input ids.
// The id sequence is wrapped in [CLS]/[SEP]; the token list is not.
func (t *WordPieceTokenizer) Encode(text string) ([]string, []int64) {
	words := splitWords(strings.ToLower(text))

	tokens := make([]string, 0, len(words))
	ids := make([]int64, 0, len(words)+2)
	ids = append(ids, t.clsID)

	for _, word := range words {
		if len(ids) >= maxSequenceLength-1 {
			break
		}
		for _, piece := range t.wordPieces(word) {
			if len(ids) >= maxSequenceLength-1 {
				break
			}
			tokens = append(tokens, piece)
			if id, ok := t.vocab[piece]; ok {
				ids = append(ids, id)
			} else {
				ids = append(ids, t.unkID)
			}
		}
	}

	ids = append(ids, t.sepID)
	return tokens, ids
}

// wordPieces splits a single word greedily: longest vocab prefix first, then
// "##"-prefixed continuations. Unknown words collapse to [UNK].
func (t *WordPieceTokenizer) wordPieces(word string) []string {
	if len(word) > maxWordPieceLen {
		return []string{tokenUnknown}
	}
	var pieces []string
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := len(runes)
		var match string
		for end > start {
			candidate := string(runes[start:end])
			if start > 0 {
				candidate = "##" + candidate
			}
			if _, ok := t.vocab[candidate]; ok {
				match = candidate
				break
			}
			end--
		}
		if match == "" {
			return []string{tokenUnknown}
		}
		pieces = append(pieces, match)
		start = end
	}
	return pieces
}

// splitWords lowersplits on whitespace and keeps punctuation as separate
// tokens, the basic-tokenizer convention of BERT-style models.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			words = append(words, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
