// Package console is the presentation boundary: an interactive transport
// console over the playback state store. It only reads store state and
// calls store operations; the audio output itself is off limits.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"KestrelFM/core/library"
	"KestrelFM/core/player"

	"github.com/chzyer/readline"
)

// Console runs the interactive player prompt.
type Console struct {
	store *player.Store
}

// New creates a console over the store.
func New(store *player.Store) *Console {
	return &Console{store: store}
}

// Run reads commands until quit or EOF.
func (c *Console) Run() error {
	rl, err := readline.New("kestrelfm> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("KestrelFM - type 'help' for commands.")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			return nil
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if quit := c.dispatch(fields[0], fields[1:]); quit {
			return nil
		}
	}
}

func (c *Console) dispatch(cmd string, args []string) (quit bool) {
	switch cmd {
	case "help":
		printHelp()
	case "play":
		if len(args) != 1 {
			fmt.Println("usage: play <share-slug>")
			return false
		}
		c.play(args[0])
	case "pause", "resume", "p":
		c.store.TogglePlay()
		c.printStatus()
	case "next", "n":
		c.store.SkipTrack(player.Next)
		c.printStatus()
	case "prev", "b":
		c.store.SkipTrack(player.Prev)
		c.printStatus()
	case "seek":
		if len(args) != 1 {
			fmt.Println("usage: seek <seconds>")
			return false
		}
		sec, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Println("seek: not a number:", args[0])
			return false
		}
		c.store.Seek(sec)
	case "vol":
		if len(args) != 1 {
			fmt.Println("usage: vol <0..1>")
			return false
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Println("vol: not a number:", args[0])
			return false
		}
		c.store.SetVolume(v)
	case "mute":
		c.store.ToggleMute()
	case "repeat":
		c.store.ToggleRepeat()
		fmt.Println("repeat:", c.store.Status().Repeat)
	case "shuffle":
		c.store.ToggleShuffle()
		fmt.Println("shuffle:", c.store.Status().Shuffle)
	case "list", "queue":
		c.store.ToggleMiniPlaylist()
		c.printQueue()
	case "library":
		c.printLibrary()
	case "status", "s":
		c.printStatus()
	case "quit", "exit", "q":
		return true
	default:
		fmt.Println("unknown command:", cmd)
	}
	return false
}

// play resolves a share slug to a track plus its album context and starts it.
func (c *Console) play(slug string) {
	lib := c.store.Library()
	track, ok := library.TrackBySlug(lib, slug)
	if !ok {
		fmt.Println("nothing found for slug:", slug)
		return
	}
	// Slugs are not unique and both lookups are first match wins, so a
	// single whose slug collides with an album track gets that album as
	// context even though it is not on it.
	album, _ := library.AlbumBySlug(lib, slug)
	c.store.PlayTrack(*track, album)
	c.printStatus()
}

func (c *Console) printStatus() {
	st := c.store.Status()
	if st.Track == nil {
		fmt.Println("nothing loaded")
		return
	}
	state := "paused"
	if st.Playing {
		state = "playing"
	}
	where := "single"
	if st.Album != nil {
		where = st.Album.Name
	}
	fmt.Printf("[%s] %s - %s (%s) %s / %s\n",
		state, st.Track.Artist, st.Track.Title, where,
		library.FormatDuration(st.CurrentTime), library.FormatDuration(st.Duration))
}

func (c *Console) printQueue() {
	st := c.store.Status()
	if !st.ShowMiniPlaylist {
		return
	}
	queue := c.store.Queue()
	if len(queue) == 0 {
		fmt.Println("no album queue; playing from singles")
		return
	}
	for i, t := range queue {
		marker := "  "
		if st.Track != nil && t.ID == st.Track.ID {
			marker = "> "
		}
		fmt.Printf("%s%2d. %s\n", marker, i+1, t.Title)
	}
}

func (c *Console) printLibrary() {
	lib := c.store.Library()
	fmt.Printf("singles (%d):\n", len(lib.Singles))
	for _, t := range lib.Singles {
		fmt.Printf("  %s  [%s]\n", t.Title, t.ShareSlug)
	}
	fmt.Printf("albums (%d):\n", len(lib.Albums))
	for _, a := range lib.Albums {
		fmt.Printf("  %s (%d tracks)  [%s]\n", a.Name, len(a.Tracks), a.ShareSlug)
	}
}

func printHelp() {
	fmt.Print(`commands:
  play <slug>     play the track or album behind a share slug
  pause | resume  toggle play/pause
  next | prev     skip within the queue or singles list
  seek <seconds>  jump to a position in the current track
  vol <0..1>      set volume
  mute            toggle mute
  repeat          cycle repeat mode (none/all/one)
  shuffle         toggle shuffle
  list            toggle the mini playlist and show the queue
  library         list everything with share slugs
  status          show the current track
  quit            exit
`)
}
