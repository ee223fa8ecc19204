// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-cellvm/ecc"
)

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generates a P-256 key pair",
	Long:  `Generates a P-256 key pair and prints the private scalar and the compressed public key in hex.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return keygen(cmd.OutOrStdout())
	},
}

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Signs a message with a P-256 private key",
	Long: `Signs the SHA-256 digest of a message and prints the 64-byte r||s signature in hex, ready to be
pushed with PUSHSLICE for CHKSIGNS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sig, err := sign(_privateKey, _message, _messageHex)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig))
		return nil
	},
}

var (
	_privateKey string
	_message    string
	_messageHex bool
)

func keygen(w io.Writer) error {
	priv, err := ecc.GenerateKey()
	if err != nil {
		return errors.Wrap(err, "failed to create key pair")
	}
	fmt.Fprintf(w, "Private Key: %x\n", ecc.PrivateKeyBytes(priv))
	fmt.Fprintf(w, "Public Key: %x\n", ecc.MarshalCompressed(&priv.PublicKey))
	return nil
}

func sign(key, msg string, msgHex bool) ([]byte, error) {
	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode private key")
	}
	priv, err := ecc.BytesToPrivateKey(keyBytes)
	if err != nil {
		return nil, err
	}
	payload := []byte(msg)
	if msgHex {
		if payload, err = hex.DecodeString(msg); err != nil {
			return nil, errors.Wrap(err, "failed to decode message")
		}
	}
	return ecc.Sign(priv, payload)
}

func init() {
	signCmd.Flags().StringVarP(&_privateKey, "key", "k", "", "private key in hex")
	signCmd.Flags().StringVarP(&_message, "msg", "m", "", "message to sign")
	signCmd.Flags().BoolVar(&_messageHex, "hex", false, "the message is hex encoded")
	for _, name := range []string{"key", "msg"} {
		if err := signCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(signCmd)
}
