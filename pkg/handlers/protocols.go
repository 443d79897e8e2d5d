package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ledongthuc/pdf"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

const (
	protocolChunkSize    = 1000
	protocolChunkOverlap = 100

	askMaxChunks       = 5
	askMaxContextChars = 10000
)

// chunkText splits text into overlapping character chunks. Each chunk is
// chunkSize long plus up to overlap characters of lookahead, so adjacent
// chunks share a margin and a phrase cut at a boundary still appears whole
// in one of them.
func chunkText(text string, chunkSize, overlap int) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	for start := 0; start < len(text); start += chunkSize {
		end := start + chunkSize + overlap
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

func extractPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func contentPreview(chunk string) string {
	if len(chunk) > 100 {
		return chunk[:100] + "..."
	}
	return chunk
}

// storeProtocol writes metadata and chunks in one transaction
func (h *Handler) storeProtocol(meta *models.Protocol, chunks []string) error {
	chunksJSON, err := json.Marshal(chunks)
	if err != nil {
		return err
	}
	return h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meta).Error; err != nil {
			return err
		}
		return tx.Create(&models.ProtocolChunks{
			ProtocolID: meta.ID,
			Chunks:     datatypes.JSON(chunksJSON),
		}).Error
	})
}

// ListProtocols returns metadata for all stored protocols
func (h *Handler) ListProtocols(c *gin.Context) {
	var protocols []models.Protocol
	if err := h.DB.Order("id").Find(&protocols).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch protocols"})
		return
	}
	c.JSON(http.StatusOK, protocols)
}

// AddProtocol stores a protocol from raw text, chunking the content
func (h *Handler) AddProtocol(c *gin.Context) {
	var input models.ProtocolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chunks := chunkText(input.Content, protocolChunkSize, protocolChunkOverlap)
	if len(chunks) == 0 {
		chunks = []string{input.Content}
	}
	category := input.Category
	if category == "" {
		category = "General"
	}

	meta := models.Protocol{
		Title:          input.Title,
		Category:       category,
		Tags:           input.Tags,
		ContentPreview: contentPreview(chunks[0]),
		ChunkCount:     len(chunks),
	}
	if err := h.storeProtocol(&meta, chunks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store protocol"})
		return
	}
	c.JSON(http.StatusCreated, meta)
}

// UploadProtocolPDF extracts text from an uploaded PDF and stores it as a
// chunked protocol. Title comes from the query string, like the text route.
func (h *Handler) UploadProtocolPDF(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF file is required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only PDF."})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil || len(content) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF file empty."})
		return
	}

	text, err := extractPDFText(content)
	if err != nil || text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract text from PDF."})
		return
	}
	klog.V(2).Infof("extracted %d characters from %s", len(text), fileHeader.Filename)

	chunks := chunkText(text, protocolChunkSize, protocolChunkOverlap)
	category := c.Query("category")
	if category == "" {
		category = "General"
	}

	meta := models.Protocol{
		Title:          title,
		Category:       category,
		Tags:           c.Query("tags"),
		ContentPreview: contentPreview(chunks[0]),
		Filename:       fileHeader.Filename,
		ChunkCount:     len(chunks),
	}
	if err := h.storeProtocol(&meta, chunks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store protocol"})
		return
	}
	c.JSON(http.StatusCreated, meta)
}

// FullProtocol returns a protocol's metadata together with all its chunks
func (h *Handler) FullProtocol(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid protocol ID"})
		return
	}

	var meta models.Protocol
	if err := h.DB.First(&meta, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Protocol with ID " + c.Param("id") + " not found"})
		return
	}

	chunks := h.protocolChunks(id)
	if len(chunks) == 0 {
		chunks = []string{meta.ContentPreview}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       meta.ID,
		"title":    meta.Title,
		"category": meta.Category,
		"tags":     meta.Tags,
		"chunks":   chunks,
	})
}

func (h *Handler) protocolChunks(protocolID int) []string {
	var stored models.ProtocolChunks
	if err := h.DB.Where("protocol_id = ?", protocolID).First(&stored).Error; err != nil {
		return nil
	}
	var chunks []string
	if err := json.Unmarshal(stored.Chunks, &chunks); err != nil {
		klog.Warningf("malformed chunks for protocol %d: %v", protocolID, err)
		return nil
	}
	return chunks
}

// DeleteProtocol removes a protocol and its chunks
func (h *Handler) DeleteProtocol(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid protocol ID"})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Protocol{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("protocol_id = ?", id).Delete(&models.ProtocolChunks{}).Error
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Protocol with ID " + c.Param("id") + " not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete protocol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Protocol and associated text chunks deleted successfully"})
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

type scoredChunk struct {
	protocolID int
	title      string
	category   string
	chunkIndex int
	content    string
	score      int
}

// AskProtocols answers a free-text question from the stored protocol
// chunks. Chunks are ranked by keyword overlap with boosts for metadata
// and direct phrase matches, and the top few become the model's context.
func (h *Handler) AskProtocols(c *gin.Context) {
	var query models.ProtocolQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.LLM == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "LLM client not initialized."})
		return
	}

	var protocols []models.Protocol
	if err := h.DB.Order("id").Find(&protocols).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch protocols"})
		return
	}
	if len(protocols) == 0 {
		c.JSON(http.StatusOK, gin.H{"answer": "No protocols available.", "protocols_found": 0})
		return
	}

	queryLower := strings.ToLower(query.Question)
	keywords := wordRe.FindAllString(queryLower, -1)

	var relevant []scoredChunk
	for _, meta := range protocols {
		metaText := strings.ToLower(meta.Title + " " + meta.Category + " " + meta.Tags)
		metaMatch := strings.Contains(metaText, queryLower)
		for _, kw := range keywords {
			if strings.Contains(metaText, kw) {
				metaMatch = true
				break
			}
		}

		for i, chunk := range h.protocolChunks(meta.ID) {
			chunkLower := strings.ToLower(chunk)
			score := 0
			for _, kw := range keywords {
				if strings.Contains(chunkLower, kw) {
					score++
				}
			}
			if metaMatch {
				score += 10
			}
			if strings.Contains(chunkLower, queryLower) {
				score += 5
			}
			if score > 1 {
				relevant = append(relevant, scoredChunk{
					protocolID: meta.ID,
					title:      meta.Title,
					category:   meta.Category,
					chunkIndex: i,
					content:    chunk,
					score:      score,
				})
			}
		}
	}

	if len(relevant) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"answer":          "No relevant text segments found matching your question within the available protocols.",
			"protocols_found": 0,
		})
		return
	}
	sort.SliceStable(relevant, func(i, j int) bool { return relevant[i].score > relevant[j].score })

	var contextParts []string
	var protocolsUsed []gin.H
	usedIDs := make(map[int]bool)
	chars := 0
	for _, chunk := range relevant {
		part := fmt.Sprintf("Excerpt from Protocol ID %d: %s (Chunk %d)\n%s", chunk.protocolID, chunk.title, chunk.chunkIndex+1, chunk.content)
		if chars+len(part) >= askMaxContextChars {
			break
		}
		contextParts = append(contextParts, part)
		chars += len(part) + 2
		if !usedIDs[chunk.protocolID] {
			usedIDs[chunk.protocolID] = true
			protocolsUsed = append(protocolsUsed, gin.H{"id": chunk.protocolID, "title": chunk.title, "category": chunk.category})
		}
		if len(contextParts) >= askMaxChunks {
			break
		}
	}
	if len(contextParts) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"answer":          "Could not build sufficient context from relevant chunks.",
			"protocols_found": len(relevant),
		})
		return
	}

	prompt := fmt.Sprintf(`You are a precise medical protocol assistant. Answer the user's question based *ONLY* on the following text excerpts from medical protocols. If the answer isn't in these excerpts, state that clearly.

User Question: %s

Provided Excerpts:
%s

Answer based ONLY on the excerpts provided above:`, query.Question, strings.Join(contextParts, "\n\n---\n\n"))

	answer, err := h.LLM.Complete(c.Request.Context(),
		"You are a helpful medical assistant answering questions strictly based on the provided text excerpts from protocols.",
		prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying LLM: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":                    answer,
		"protocols_found":           len(relevant),
		"protocols_used_in_context": protocolsUsed,
	})
}
