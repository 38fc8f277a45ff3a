package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"

	"github.com/achirizzi/go-audio-mixdown/mixer"
)

func main() {
	pcmIn := flag.String("pcm-in", "", "path to a raw S16LE PCM file to mix in as a primary track")
	ulawIn := flag.String("ulaw-in", "", "path to a raw G.711 u-law file to mix in as a secondary track")
	ulawRate := flag.Int("ulaw-rate", 8000, "sample rate of the u-law input")
	pcmRate := flag.Int("pcm-rate", 44100, "sample rate of the PCM input")
	outRate := flag.Int("out-rate", 44100, "output sample rate")
	outPath := flag.String("out", "/tmp/mixdown.raw", "path to write the mixed S16LE output")
	highQuality := flag.Bool("hq", true, "use the high-quality sinc resampler instead of linear")
	flag.Parse()

	if *pcmIn == "" && *ulawIn == "" {
		log.Fatal("at least one of -pcm-in or -ulaw-in must be supplied")
	}

	var sources []mixer.SampleSource

	if *pcmIn != "" {
		raw, err := os.ReadFile(*pcmIn)
		if err != nil {
			log.Fatal(err)
		}
		samples := s16LEBytesToFloats(raw)
		src := mixer.NewMemorySource(samples, *pcmRate, mixer.ChannelMono)
		sources = append(sources, src)
		log.Println("loaded PCM track", *pcmIn, "samples:", len(samples))
	}

	if *ulawIn != "" {
		raw, err := os.ReadFile(*ulawIn)
		if err != nil {
			log.Fatal(err)
		}
		src := mixer.NewUlawByteSource(raw, *ulawRate, mixer.ChannelMono)
		sources = append(sources, src)
		log.Println("loaded u-law track", *ulawIn, "bytes:", len(raw))
	}

	longestEnd := 0.0
	for _, s := range sources {
		if s.EndTime() > longestEnd {
			longestEnd = s.EndTime()
		}
	}

	const bufferSize = 1024
	engine, err := mixer.NewMixerEngine(
		sources,
		false,
		mixer.WarpOptions{InitialSpeed: 1},
		0, longestEnd,
		1, bufferSize,
		true,
		*outRate,
		mixer.FormatInt16,
		*highQuality,
		nil,
		false,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	total := 0
	for {
		n, err := engine.Process(bufferSize)
		if err != nil {
			log.Fatal(err)
		}
		if n == 0 {
			break
		}
		buf := engine.GetBuffer(n)
		if _, err := out.Write(buf); err != nil {
			log.Fatal(err)
		}
		total += n
	}

	log.Println("finished mixdown,", total, "samples ->", *outPath)
}

// s16LEBytesToFloats decodes raw S16LE PCM bytes into float samples in
// [-1,1), the same normalization audio_mixer.go's s16ToFloatGo uses.
func s16LEBytesToFloats(raw []byte) []float64 {
	n := len(raw) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s16 := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		out[i] = float64(s16) / 32768.0
	}
	return out
}
