//
// Copyright (c) 2025, Antonio Chirizzi <antonio.chirizzi@gmail.com>
// All rights reserved.
//
// This code is released under 3-clause BSD license. Please see the
// file LICENSE
//

package resample

const (
	enableSincBestConverter   = true
	enableSincFastConverter   = true
	enableSincMediumConverter = true

	maxChannels = 128
)
