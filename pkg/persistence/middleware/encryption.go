package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/ports"
)

// encPrefix marks an encrypted field value.
const encPrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.TreeStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts the generated
// text of every node (name and description) with AES-GCM before it reaches
// the store. Structural fields stay plain so stores can keep indexing and
// reassembling trees.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.TreeStore) ports.TreeStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) SaveTree(ctx context.Context, tree *domain.Tree) error {
	sealed := make([]*domain.Node, 0, tree.Len())
	for _, n := range tree.Nodes() {
		s, err := m.sealNode(n)
		if err != nil {
			return err
		}
		sealed = append(sealed, s)
	}
	sealedTree, err := domain.Restore(tree.Industry, tree.RootID, sealed)
	if err != nil {
		return err
	}
	return m.next.SaveTree(ctx, sealedTree)
}

func (m *encryptionMiddleware) LoadTree(ctx context.Context, industry string) (*domain.Tree, error) {
	tree, err := m.next.LoadTree(ctx, industry)
	if err != nil {
		return nil, err
	}
	// The loaded tree is a fresh copy, opening in place is safe.
	for _, n := range tree.Nodes() {
		if err := m.openNode(n); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (m *encryptionMiddleware) UpsertNode(ctx context.Context, industry string, node *domain.Node) error {
	sealed, err := m.sealNode(node)
	if err != nil {
		return err
	}
	return m.next.UpsertNode(ctx, industry, sealed)
}

func (m *encryptionMiddleware) UpsertNodes(ctx context.Context, industry string, nodes []*domain.Node) error {
	sealed := make([]*domain.Node, 0, len(nodes))
	for _, n := range nodes {
		s, err := m.sealNode(n)
		if err != nil {
			return err
		}
		sealed = append(sealed, s)
	}
	return m.next.UpsertNodes(ctx, industry, sealed)
}

func (m *encryptionMiddleware) FindNode(ctx context.Context, industry, id string) (*domain.Node, error) {
	node, err := m.next.FindNode(ctx, industry, id)
	if err != nil {
		return nil, err
	}
	if err := m.openNode(node); err != nil {
		return nil, err
	}
	return node, nil
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, industry string) error {
	return m.next.Delete(ctx, industry)
}

// sealNode returns a copy of the node with its text fields encrypted. The
// original node stays untouched for the scheduler.
func (m *encryptionMiddleware) sealNode(n *domain.Node) (*domain.Node, error) {
	sealed := *n
	sealed.ChildIDs = append([]string(nil), n.ChildIDs...)
	sealed.EmptySteps = append([]string(nil), n.EmptySteps...)

	var err error
	if sealed.Name, err = m.sealString(n.Name); err != nil {
		return nil, fmt.Errorf("encrypt node %s: %w", n.ID, err)
	}
	if sealed.Description, err = m.sealString(n.Description); err != nil {
		return nil, fmt.Errorf("encrypt node %s: %w", n.ID, err)
	}
	return &sealed, nil
}

func (m *encryptionMiddleware) openNode(n *domain.Node) error {
	var err error
	if n.Name, err = m.openString(n.Name); err != nil {
		return fmt.Errorf("decrypt node %s: %w", n.ID, err)
	}
	if n.Description, err = m.openString(n.Description); err != nil {
		return fmt.Errorf("decrypt node %s: %w", n.ID, err)
	}
	return nil
}

func (m *encryptionMiddleware) sealString(s string) (string, error) {
	ciphertext, err := encrypt([]byte(s), m.config.ActiveKey)
	if err != nil {
		return "", err
	}
	return encPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (m *encryptionMiddleware) openString(s string) (string, error) {
	if !strings.HasPrefix(s, encPrefix) {
		// Fail secure: once encryption is configured, plain records are
		// treated as tampering, not as a migration path.
		return "", errors.New("field is not encrypted")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, encPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	// Try active key first
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	// Try fallbacks in order
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
