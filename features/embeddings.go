package features

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Embeddings maps words to pretrained vectors of a fixed
// dimensionality.
type Embeddings struct {
	Dim     int
	Vectors map[string][]float64
}

// ReadEmbeddings reads word vectors in the plain-text
// word2vec format: an optional "<count> <dim>" header,
// then one "word v1 ... vdim" line per word. Every vector
// must have dim components.
func ReadEmbeddings(path string, dim int) (*Embeddings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := &Embeddings{Dim: dim, Vectors: map[string][]float64{}}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNum == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}
		if len(fields)-1 != dim {
			return nil, fmt.Errorf("%s:%d: vector has %d components, want %d",
				path, lineNum, len(fields)-1, dim)
		}
		vec := make([]float64, dim)
		for i, s := range fields[1:] {
			vec[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNum, err)
			}
		}
		res.Vectors[fields[0]] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(res.Vectors) == 0 {
		return nil, fmt.Errorf("%s: no word vectors", path)
	}
	return res, nil
}
