package accounts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// Scrypt parameters used when encrypting new keystores. Tests lower them.
var (
	ScryptN = gethkeystore.StandardScryptN
	ScryptP = gethkeystore.StandardScryptP
)

type AccDesc struct {
	Address string
	Keypath string
}

type keystore struct {
	Address string `json:"address"`
}

func StorePrivateKeyWithKeystore(dir string, privateKey string, passphrase string) (string, error) {
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	key := &gethkeystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}

	keystoreJson, err := gethkeystore.EncryptKey(key, passphrase, ScryptN, ScryptP)
	if err != nil {
		return "", fmt.Errorf("couldn't encrypt the key: %w", err)
	}

	if err = os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", key.Address.Hex()))
	if _, err = os.Stat(path); err == nil {
		return "", fmt.Errorf("keystore for %s already exists at %s", key.Address.Hex(), path)
	}
	return path, os.WriteFile(path, keystoreJson, 0o600)
}

// VerifyKeystore returns the checksummed address recorded in a keystore
// file without decrypting it.
func VerifyKeystore(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	k := &keystore{}
	if err = json.Unmarshal(content, k); err != nil {
		return "", err
	}
	if !common.IsHexAddress(k.Address) {
		return "", fmt.Errorf("%s is not a keystore file", path)
	}
	return common.HexToAddress(k.Address).Hex(), nil
}

// ListKeystores returns every readable keystore in dir, sorted by address.
// A missing dir yields an empty list.
func ListKeystores(dir string) ([]AccDesc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	result := []AccDesc{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		addr, err := VerifyKeystore(path)
		if err != nil {
			continue
		}
		result = append(result, AccDesc{Address: addr, Keypath: path})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})
	return result, nil
}

// FindKeystore picks the keystore for from. An empty from is accepted when
// dir holds exactly one account.
func FindKeystore(dir string, from string) (AccDesc, error) {
	accs, err := ListKeystores(dir)
	if err != nil {
		return AccDesc{}, err
	}
	if len(accs) == 0 {
		return AccDesc{}, fmt.Errorf("no keystore found in %s", dir)
	}
	if from == "" {
		if len(accs) > 1 {
			return AccDesc{}, fmt.Errorf("%d accounts in %s, pick one with --from", len(accs), dir)
		}
		return accs[0], nil
	}
	for _, acc := range accs {
		if strings.EqualFold(acc.Address, from) {
			return acc, nil
		}
	}
	return AccDesc{}, fmt.Errorf("account %s not found in %s", from, dir)
}
