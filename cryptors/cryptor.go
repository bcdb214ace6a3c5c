// Package cryptors chains block cipher devices into goroutine pipelines.
// Devices implement Crypter; blocks travel from the left end of a machine
// to its right end over unbuffered channels.
package cryptors

import (
	"github.com/bgallie/hill/cryptors/matrix"
)

// Block is the unit of data processed by the cryptors.  A Block with a
// Length of zero or less shuts down every device it passes through and is
// forwarded to the right end unchanged.
type Block struct {
	Length int
	Data   matrix.Vector
}

// Crypter is a block cipher device.  ApplyF enciphers one block of
// BlockSize letter indices and ApplyG reverses it.
type Crypter interface {
	BlockSize() int
	ApplyF(matrix.Vector) matrix.Vector
	ApplyG(matrix.Vector) matrix.Vector
}

// Encrypt applies the forward transform of ecm to blk.
func Encrypt(ecm Crypter, blk matrix.Vector) matrix.Vector {
	return ecm.ApplyF(blk)
}

// Decrypt applies the reverse transform of ecm to blk.
func Decrypt(ecm Crypter, blk matrix.Vector) matrix.Vector {
	return ecm.ApplyG(blk)
}

// EncryptMachine starts a goroutine that enciphers every block read from
// left and writes it to the returned channel.
func EncryptMachine(ecm Crypter, left chan Block) chan Block {
	right := make(chan Block)
	go func(ecm Crypter, left chan Block, right chan Block) {
		for {
			inp := <-left
			if inp.Length <= 0 {
				right <- inp
				break
			}

			inp.Data = ecm.ApplyF(inp.Data)
			right <- inp
		}
	}(ecm, left, right)

	return right
}

// DecryptMachine is EncryptMachine with the reverse transform.
func DecryptMachine(ecm Crypter, left chan Block) chan Block {
	right := make(chan Block)
	go func(ecm Crypter, left chan Block, right chan Block) {
		for {
			inp := <-left
			if inp.Length <= 0 {
				right <- inp
				break
			}

			inp.Data = ecm.ApplyG(inp.Data)
			right <- inp
		}
	}(ecm, left, right)

	return right
}

// CreateEncryptMachine chains ecms left to right.  Every device must have
// the same block size.
func CreateEncryptMachine(ecms ...Crypter) (left chan Block, right chan Block) {
	if len(ecms) == 0 {
		panic("you must give at least one encryption device!")
	}

	checkBlockSizes(ecms)
	left = make(chan Block)
	right = EncryptMachine(ecms[0], left)
	for idx := 1; idx < len(ecms); idx++ {
		right = EncryptMachine(ecms[idx], right)
	}

	return
}

// CreateDecryptMachine chains ecms right to left, undoing
// CreateEncryptMachine with the same devices.
func CreateDecryptMachine(ecms ...Crypter) (left chan Block, right chan Block) {
	if len(ecms) == 0 {
		panic("you must give at least one decryption device!")
	}

	checkBlockSizes(ecms)
	idx := len(ecms) - 1
	left = make(chan Block)
	right = DecryptMachine(ecms[idx], left)
	for idx--; idx >= 0; idx-- {
		right = DecryptMachine(ecms[idx], right)
	}

	return
}

// Shutdown stops a machine by sending a zero length block and waiting for
// it to reach the right end.
func Shutdown(left, right chan Block) {
	left <- Block{}
	<-right
}

func checkBlockSizes(ecms []Crypter) {
	size := ecms[0].BlockSize()
	for _, ecm := range ecms[1:] {
		if ecm.BlockSize() != size {
			panic("all devices in a machine must share one block size!")
		}
	}
}
