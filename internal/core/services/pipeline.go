package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdex-cli/internal/core/domain"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragdex-cli/internal/logger"
)

// Ensure Pipeline implements the interfaces.
var (
	_ driving.IngestService = (*Pipeline)(nil)
	_ driving.QueryService  = (*Pipeline)(nil)
)

// Default retrieval sizes. Ask fetches a larger pool than Retrieve
// because synthesis benefits from more context to cite.
const (
	DefaultTopK      = 100
	DefaultFinalM    = 10
	DefaultAskTopK   = 200
	DefaultAskFinalM = 20
)

// DefaultIngestWorkers bounds document-level concurrency during
// ingestion.
const DefaultIngestWorkers = 4

// noContextAnswer is returned when retrieval finds nothing relevant.
// A normal outcome, not an error.
const noContextAnswer = "I could not find any relevant information to answer your question."

// Pipeline sequences the ingestion flow (parse, chunk, index) and the
// query flow (clarify, retrieve, synthesize). The clarification and
// synthesis steps are optional and degrade to pass-through behaviour
// when no LLM service is configured.
type Pipeline struct {
	parsers     driven.ParserRegistry
	chunker     *Chunker
	indexer     *Indexer
	retriever   *HybridRetriever
	collections driven.CollectionRegistry
	llm         driven.LLMService
}

// NewPipeline creates a pipeline. llm may be nil.
func NewPipeline(
	parsers driven.ParserRegistry,
	chunker *Chunker,
	indexer *Indexer,
	retriever *HybridRetriever,
	collections driven.CollectionRegistry,
	llm driven.LLMService,
) *Pipeline {
	return &Pipeline{
		parsers:     parsers,
		chunker:     chunker,
		indexer:     indexer,
		retriever:   retriever,
		collections: collections,
		llm:         llm,
	}
}

// Ingest parses, chunks, embeds and upserts everything under path into
// the named index. Documents are processed concurrently by a bounded
// worker pool; a failure in one document never aborts the others.
func (p *Pipeline) Ingest(ctx context.Context, indexName, path string, opts driving.IngestOptions) (*domain.IngestReport, error) {
	collection, err := p.collections.Get(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("resolve index %q: %w", indexName, err)
	}

	files, err := collectFiles(path)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingestion")
	logger.Info("Ingesting %d files into index %q", len(files), indexName)

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultIngestWorkers
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	var (
		mu     sync.Mutex
		report domain.IngestReport
		wg     sync.WaitGroup
	)

	jobs := make(chan string)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for file := range jobs {
				count, failure := p.ingestOne(ctx, file, *collection, opts)
				mu.Lock()
				if failure != nil {
					report.Failures = append(report.Failures, *failure)
				} else {
					report.DocumentsProcessed++
					report.ChunksIndexed += count
				}
				mu.Unlock()
			}
		}()
	}

	for _, file := range files {
		select {
		case jobs <- file:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return &report, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	logger.Success("Ingestion complete: %d documents, %d chunks, %d failures",
		report.DocumentsProcessed, report.ChunksIndexed, len(report.Failures))
	return &report, nil
}

// ingestOne runs parse, chunk, index for a single file.
func (p *Pipeline) ingestOne(ctx context.Context, path string, collection domain.RAGCollection, opts driving.IngestOptions) (int, *domain.DocumentFailure) {
	logger.Debug("Processing document: %s", path)

	doc, err := p.parsers.Parse(ctx, path)
	if err != nil {
		logger.Warn("Parse failed for %s: %v", path, err)
		return 0, &domain.DocumentFailure{Path: path, Stage: "parse", Err: err}
	}

	chunks, err := p.chunker.Chunk(*doc)
	if err != nil {
		logger.Warn("Chunking failed for %s: %v", path, err)
		return 0, &domain.DocumentFailure{Path: path, Stage: "chunk", Err: err}
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks produced for %s", path)
		return 0, nil
	}

	metadata := make([]domain.ChunkMetadata, len(chunks))
	sourceType := strings.ToLower(filepath.Ext(path))
	for i := range chunks {
		metadata[i] = domain.ChunkMetadata{
			FilePath:   path,
			ChunkIndex: i,
			SourceType: sourceType,
			Tags:       opts.Tags,
			CommitHash: opts.CommitHash,
		}
	}

	count, err := p.indexer.Index(ctx, chunks, metadata, collection)
	if err != nil {
		stage := "embed"
		if !isEmbeddingErr(err) {
			stage = "store"
		}
		logger.Warn("Indexing failed for %s: %v", path, err)
		return 0, &domain.DocumentFailure{Path: path, Stage: stage, Err: err}
	}

	logger.Success("Indexed %s (%d chunks)", path, count)
	return count, nil
}

func isEmbeddingErr(err error) bool {
	return errors.Is(err, domain.ErrEmbeddingFailure) || errors.Is(err, domain.ErrEmbeddingUnavailable)
}

// Retrieve runs hybrid retrieval against the named index with an
// explicit semantic and keyword query pair.
func (p *Pipeline) Retrieve(ctx context.Context, indexName, semanticQuery, keywordQuery string, opts driving.RetrieveOptions) ([]domain.ScoredCandidate, error) {
	collection, err := p.collections.Get(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("resolve index %q: %w", indexName, err)
	}

	finalM := opts.FinalM
	if finalM == 0 {
		finalM = DefaultFinalM
	}
	topK := opts.TopK
	if topK == 0 {
		// A defaulted pool grows to cover an explicit result limit;
		// an explicit topK smaller than finalM still errors below.
		topK = DefaultTopK
		if finalM > topK {
			topK = finalM
		}
	}

	retriever := p.retriever
	if opts.KeywordWeight != nil {
		retriever = NewHybridRetriever(p.retriever.embedder, p.retriever.store,
			WithKeywordWeight(*opts.KeywordWeight))
	}

	return retriever.Retrieve(ctx, *collection, semanticQuery, keywordQuery, opts.Filter, topK, finalM)
}

// Ask clarifies the question, retrieves context and synthesizes an
// answer grounded in it.
func (p *Pipeline) Ask(ctx context.Context, indexName, question string, opts driving.RetrieveOptions) (*driving.Answer, error) {
	logger.Section("Query")

	semanticQuery, keywordQuery, answer := question, question, driving.Answer{}

	if p.llm != nil {
		clarification, err := p.llm.ClarifyQuery(ctx, question)
		if err != nil {
			logger.Warn("Clarification failed: %v (falling back to original query)", err)
		} else {
			semanticQuery = clarification.RefinedQuery
			keywordQuery = strings.Join(clarification.SearchTerms, " ")
			answer.Intent = clarification.Intent
			logger.Info("Intent: %s", clarification.Intent)
			logger.Info("Refined query: %s", clarification.RefinedQuery)
			logger.Info("Search terms: %s", keywordQuery)
		}
	}
	answer.RefinedQuery = semanticQuery

	if opts.FinalM == 0 {
		opts.FinalM = DefaultAskFinalM
	}
	if opts.TopK == 0 {
		opts.TopK = DefaultAskTopK
		if opts.FinalM > opts.TopK {
			opts.TopK = opts.FinalM
		}
	}

	candidates, err := p.Retrieve(ctx, indexName, semanticQuery, keywordQuery, opts)
	if err != nil {
		return nil, err
	}
	answer.Candidates = candidates

	if len(candidates) == 0 {
		logger.Warn("No relevant context found")
		answer.Text = noContextAnswer
		return &answer, nil
	}

	if p.llm == nil {
		answer.Text = fallbackAnswer(candidates)
		return &answer, nil
	}

	text, err := p.llm.Synthesize(ctx, semanticQuery, candidates)
	if err != nil {
		return nil, fmt.Errorf("synthesize answer: %w", err)
	}
	answer.Text = text
	return &answer, nil
}

// fallbackAnswer lists the retrieved chunks when no LLM is available.
func fallbackAnswer(candidates []domain.ScoredCandidate) string {
	var b strings.Builder
	b.WriteString("No LLM configured; top matching chunks:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "\n[%d] %s (chunk %d, score %.3f)\n%s\n",
			i+1, c.Point.Payload.FilePath, c.Point.Payload.ChunkIndex, c.FusedScore, c.Point.Payload.Text)
	}
	return b.String()
}

// collectFiles expands path into the ordered list of regular files to
// ingest. Hidden directories (.git and friends) are skipped.
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", domain.ErrInvalidInput, path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	return files, nil
}
