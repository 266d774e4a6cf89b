package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/dhruv-1001/extkeys/keychain"
	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// originInfo is the JSON form of a key origin.
type originInfo struct {
	Fingerprint string `json:"fingerprint"`
	Path        string `json:"path"`
}

// keyInfo is the JSON form of a descriptor key printed by inspect.
type keyInfo struct {
	Descriptor        string      `json:"descriptor"`
	Kind              string      `json:"kind"`
	Network           string      `json:"network"`
	Fingerprint       string      `json:"fingerprint"`
	ParentFingerprint string      `json:"parent_fingerprint"`
	Depth             uint8       `json:"depth"`
	ChildIndex        string      `json:"child_index"`
	PubKey            string      `json:"pubkey"`
	Origin            *originInfo `json:"origin,omitempty"`
	Path              string      `json:"path"`
	FullPath          string      `json:"full_path"`
	Wildcard          string      `json:"wildcard"`
}

type inspectCommand struct {
	Key string `long:"key" short:"k" description:"The descriptor key to inspect" required:"true"`

	env *environment
}

func newInspectCommand(env *environment) *inspectCommand {
	return &inspectCommand{
		env: env,
	}
}

func (x *inspectCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"inspect",
		"Print the details of a key as JSON",
		"Decode a descriptor key and print its kind, fingerprints, "+
			"depth, origin, paths and wildcard as JSON",
		x,
	)
	return err
}

func (x *inspectCommand) Execute(_ []string) error {
	if err := x.env.start(); err != nil {
		return err
	}

	key, err := x.env.parseKey(x.Key)
	if err != nil {
		return err
	}

	info, err := newKeyInfo(key)
	if err != nil {
		return err
	}

	return printJSON(x.env, info)
}

// newKeyInfo collects the details of key.
func newKeyInfo(key *keychain.DescriptorKey) (*keyInfo, error) {
	material := key.Material()

	pubKey, err := material.PubKey()
	if err != nil {
		return nil, err
	}

	return &keyInfo{
		Descriptor:        key.String(),
		Kind:              key.Kind().String(),
		Network:           material.Net().Name,
		Fingerprint:       material.Fingerprint().String(),
		ParentFingerprint: material.ParentFingerprint().String(),
		Depth:             material.Depth(),
		ChildIndex:        material.ChildIndex().String(),
		PubKey:            hex.EncodeToString(pubKey.SerializeCompressed()),
		Origin: fn.MapOptionZ(
			key.Origin(), func(o keychain.KeyOrigin) *originInfo {
				return &originInfo{
					Fingerprint: o.Fingerprint.String(),
					Path:        o.Path.String(),
				}
			},
		),
		Path:     key.Path().String(),
		FullPath: key.FullPath().String(),
		Wildcard: key.Wildcard().String(),
	}, nil
}

// printJSON writes resp as indented JSON followed by a newline.
func printJSON(env *environment, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "\t"); err != nil {
		return err
	}
	out.WriteString("\n")

	_, err = out.WriteTo(env.out)
	return err
}
