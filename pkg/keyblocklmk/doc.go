// Package keyblocklmk provides functions to wrap and unwrap cryptographic keys under a Local Master Key (LMK) using secure key blocks (Thales 'S' and TR-31 'R').
package keyblocklmk
